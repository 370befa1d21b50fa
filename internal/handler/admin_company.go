package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guardtrack/patrol-api/internal/repository"
)

type companyReq struct {
	Name string `json:"name"`
}

// CreateCompany handles POST /v1/companies.
func (h *AdminHandler) CreateCompany(c echo.Context) error {
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	co := &repository.Company{Name: req.Name}
	if err := h.Companies.Create(ctx, co); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create company failed"})
	}
	return c.JSON(http.StatusCreated, co)
}

// ListCompanies handles GET /v1/companies.
func (h *AdminHandler) ListCompanies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	list, err := h.Companies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list companies failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"companies": list})
}

// GetCompany handles GET /v1/companies/:id.
func (h *AdminHandler) GetCompany(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	co, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, co)
}

// UpdateCompany handles PUT /v1/companies/:id (rename only).
func (h *AdminHandler) UpdateCompany(c echo.Context) error {
	id := c.Param("id")
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Companies.UpdateName(ctx, id, req.Name); err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update company failed"})
	}
	co, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, co)
}

// DeleteCompany handles DELETE /v1/companies/:id. The delete cascades over
// the company's sites, areas and points in a single transaction. Patrol
// logs that reference the removed points stay in place; report reads
// render their missing ancestry as "N/A".
func (h *AdminHandler) DeleteCompany(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Companies.Delete(ctx, id); err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete company failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
