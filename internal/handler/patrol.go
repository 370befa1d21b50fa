package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guardtrack/patrol-api/internal/queue"
	"github.com/guardtrack/patrol-api/internal/repository"
	"github.com/guardtrack/patrol-api/internal/service"
)

// PatrolHandler exposes the officer-facing scan and submission endpoints.
type PatrolHandler struct {
	Svc *service.PatrolService
}

func NewPatrolHandler(svc *service.PatrolService) *PatrolHandler {
	return &PatrolHandler{Svc: svc}
}

type submitLogReq struct {
	QRID          string `json:"qr_id"`
	OfficerName   string `json:"officer_name"`
	CompanyNumber string `json:"company_number"`
	GeoLocation   string `json:"geo_location"`
	Signature     string `json:"signature"`
	Notes         string `json:"notes"`
}

// Scan handles GET /v1/points/scan/:qrId. An officer's device calls this
// right after decoding a QR code; the response confirms which point was hit
// and where it sits in the hierarchy.
func (h *PatrolHandler) Scan(c echo.Context) error {
	qrID := c.Param("qrId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, details, err := h.Svc.ResolveScan(ctx, qrID)
	if err != nil {
		if errors.Is(err, repository.ErrPointNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown qr code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"point_id":    p.ID,
		"qr_id":       p.QRID,
		"description": details.Description,
		"area":        details.Area,
		"site":        details.Site,
	})
}

// SubmitLog handles POST /v1/patrol-logs. The log row is written
// synchronously; the notification event is published to RabbitMQ in the
// background so a slow or absent broker never delays the officer in the
// field.
func (h *PatrolHandler) SubmitLog(c echo.Context) error {
	var req submitLogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	logRow, details, err := h.Svc.Submit(ctx, service.SubmitInput{
		QRID:          req.QRID,
		OfficerName:   req.OfficerName,
		CompanyNumber: req.CompanyNumber,
		GeoLocation:   req.GeoLocation,
		Signature:     req.Signature,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrPointNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown qr code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}

	// Fire-and-forget notification; failures are logged by the publisher.
	go func(ev queue.PatrolLoggedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue.PublishPatrolLogged(pubCtx, ev)
	}(queue.PatrolLoggedEvent{
		LogID:            logRow.ID,
		OfficerName:      logRow.OfficerName,
		CompanyNumber:    logRow.CompanyNumber,
		PointID:          logRow.PointID,
		PointDescription: details.Description,
		AreaName:         details.Area,
		SiteID:           logRow.SiteID,
		SiteName:         details.Site,
		GeoLocation:      logRow.GeoLocation,
		LoggedAt:         logRow.Timestamp.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"log": logRow,
		"point": echo.Map{
			"description": details.Description,
			"area":        details.Area,
			"site":        details.Site,
		},
	})
}
