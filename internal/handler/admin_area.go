package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guardtrack/patrol-api/internal/repository"
)

type areaReq struct {
	Name string `json:"name"`
}

// CreateArea handles POST /v1/sites/:id/areas.
func (h *AdminHandler) CreateArea(c echo.Context) error {
	siteID := c.Param("id")
	var req areaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a := &repository.Area{SiteID: siteID, Name: req.Name}
	if err := h.Areas.Create(ctx, a); err != nil {
		if err == repository.ErrSiteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "site not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create area failed"})
	}
	return c.JSON(http.StatusCreated, a)
}

// ListAreas handles GET /v1/sites/:id/areas.
func (h *AdminHandler) ListAreas(c echo.Context) error {
	siteID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Sites.GetByID(ctx, siteID); err != nil {
		if err == repository.ErrSiteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "site not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	list, err := h.Areas.ListBySite(ctx, siteID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list areas failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"areas": list})
}

// GetArea handles GET /v1/areas/:id.
func (h *AdminHandler) GetArea(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Areas.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrAreaNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// UpdateArea handles PUT /v1/areas/:id (rename only).
func (h *AdminHandler) UpdateArea(c echo.Context) error {
	id := c.Param("id")
	var req areaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Areas.UpdateName(ctx, id, req.Name); err != nil {
		if err == repository.ErrAreaNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update area failed"})
	}
	a, err := h.Areas.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteArea handles DELETE /v1/areas/:id, cascading over the area's points.
func (h *AdminHandler) DeleteArea(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Areas.Delete(ctx, id); err != nil {
		if err == repository.ErrAreaNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete area failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
