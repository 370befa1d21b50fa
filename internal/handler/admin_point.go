package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guardtrack/patrol-api/internal/export"
	"github.com/guardtrack/patrol-api/internal/repository"
)

type createPointReq struct {
	Description          string  `json:"description"`
	QRID                 string  `json:"qr_id"`
	QRCode               string  `json:"qr_code"` // optional, defaults to qr_id
	ScansRequiredPerHour *uint32 `json:"scans_required_per_hour"`
}

type updatePointReq struct {
	Description          string  `json:"description"`
	QRCode               string  `json:"qr_code"`
	ScansRequiredPerHour *uint32 `json:"scans_required_per_hour"`
}

// CreatePoint handles POST /v1/areas/:id/points. The qr_id is the unique
// scan key and is immutable once assigned; duplicates are rejected with 409.
func (h *AdminHandler) CreatePoint(c echo.Context) error {
	areaID := c.Param("id")
	var req createPointReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Description = strings.TrimSpace(req.Description)
	req.QRID = strings.TrimSpace(req.QRID)
	if req.Description == "" || req.QRID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description and qr_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p := &repository.Point{
		AreaID:               areaID,
		Description:          req.Description,
		QRID:                 req.QRID,
		QRCode:               strings.TrimSpace(req.QRCode),
		ScansRequiredPerHour: req.ScansRequiredPerHour,
	}
	if err := h.Points.Create(ctx, p); err != nil {
		switch err {
		case repository.ErrAreaNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		case repository.ErrQRIDExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "qr_id already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create point failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// ListPoints handles GET /v1/areas/:id/points.
func (h *AdminHandler) ListPoints(c echo.Context) error {
	areaID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Areas.GetByID(ctx, areaID); err != nil {
		if err == repository.ErrAreaNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	list, err := h.Points.ListByArea(ctx, areaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list points failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"points": list})
}

// GetPoint handles GET /v1/points/:id.
func (h *AdminHandler) GetPoint(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Points.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPointNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "point not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePoint handles PUT /v1/points/:id. The qr_id cannot change; the
// description, the printed qr_code payload and the hourly scan target can.
func (h *AdminHandler) UpdatePoint(c echo.Context) error {
	id := c.Param("id")
	var req updatePointReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	// An empty qr_code falls back to the immutable qr_id, mirroring create.
	qrCode := strings.TrimSpace(req.QRCode)
	if qrCode == "" {
		existing, err := h.Points.GetByID(ctx, id)
		if err != nil {
			if err == repository.ErrPointNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "point not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		qrCode = existing.QRID
	}

	if err := h.Points.Update(ctx, id, req.Description, qrCode, req.ScansRequiredPerHour); err != nil {
		if err == repository.ErrPointNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "point not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update point failed"})
	}
	p, err := h.Points.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePoint handles DELETE /v1/points/:id. Patrol logs that reference the
// point are kept; report reads degrade their description to "N/A".
func (h *AdminHandler) DeletePoint(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Points.Delete(ctx, id); err != nil {
		if err == repository.ErrPointNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "point not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete point failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// PointLabelsPDF handles GET /v1/points/labels.pdf: a printable sheet of QR
// labels for every registered point, for physical installation on site.
func (h *AdminHandler) PointLabelsPDF(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	points, err := h.Points.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list points failed"})
	}
	areas, err := h.Areas.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list areas failed"})
	}
	sites, err := h.Sites.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list sites failed"})
	}

	out, err := export.ToLabelsPDF(export.BuildLabels(points, areas, sites))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render labels failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.LabelsFilename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", out)
}
