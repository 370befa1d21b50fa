package handler

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guardtrack/patrol-api/internal/repository"
)

// dbTimeout bounds every repository call made by a handler.
const dbTimeout = 5 * time.Second

// AdminHandler bundles the repositories behind the admin CRUD endpoints.
// Every endpoint in this group requires the ADMIN role; the router enforces
// that before the handler runs.
type AdminHandler struct {
	Companies *repository.CompanyRepo
	Sites     *repository.SiteRepo
	Areas     *repository.AreaRepo
	Points    *repository.PointRepo
}

func NewAdminHandler(
	companies *repository.CompanyRepo,
	sites *repository.SiteRepo,
	areas *repository.AreaRepo,
	points *repository.PointRepo,
) *AdminHandler {
	return &AdminHandler{
		Companies: companies,
		Sites:     sites,
		Areas:     areas,
		Points:    points,
	}
}

// getUserID extracts the authenticated user id placed in the context by the
// JWT middleware.
func getUserID(c echo.Context) (string, error) {
	v := c.Get("user_id")
	id, ok := v.(string)
	if !ok || id == "" {
		return "", errors.New("unauthorized")
	}
	return id, nil
}
