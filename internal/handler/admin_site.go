package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guardtrack/patrol-api/internal/repository"
)

type siteReq struct {
	Name string `json:"name"`
}

// CreateSite handles POST /v1/companies/:id/sites. The parent company must
// exist; the repository checks that inside the insert transaction so a
// concurrent company delete cannot leave an orphan.
func (h *AdminHandler) CreateSite(c echo.Context) error {
	companyID := c.Param("id")
	var req siteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s := &repository.Site{CompanyID: companyID, Name: req.Name}
	if err := h.Sites.Create(ctx, s); err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create site failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// ListSites handles GET /v1/companies/:id/sites.
func (h *AdminHandler) ListSites(c echo.Context) error {
	companyID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Companies.GetByID(ctx, companyID); err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	list, err := h.Sites.ListByCompany(ctx, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list sites failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sites": list})
}

// ListAllSites handles GET /v1/sites. Report filter dropdowns use this flat
// listing.
func (h *AdminHandler) ListAllSites(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	list, err := h.Sites.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list sites failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sites": list})
}

// GetSite handles GET /v1/sites/:id.
func (h *AdminHandler) GetSite(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Sites.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrSiteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "site not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// UpdateSite handles PUT /v1/sites/:id (rename only).
func (h *AdminHandler) UpdateSite(c echo.Context) error {
	id := c.Param("id")
	var req siteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Sites.UpdateName(ctx, id, req.Name); err != nil {
		if err == repository.ErrSiteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "site not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update site failed"})
	}
	s, err := h.Sites.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSite handles DELETE /v1/sites/:id, cascading over the site's areas
// and points.
func (h *AdminHandler) DeleteSite(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Sites.Delete(ctx, id); err != nil {
		if err == repository.ErrSiteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "site not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete site failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
