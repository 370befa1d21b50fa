package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guardtrack/patrol-api/internal/export"
	"github.com/guardtrack/patrol-api/internal/report"
	"github.com/guardtrack/patrol-api/internal/repository"
	"github.com/guardtrack/patrol-api/internal/service"
)

// ReportHandler serves the patrol-log report views and their file exports.
// All three surfaces (JSON, CSV, PDF) share one pipeline: load the full log
// set and the current hierarchy, filter, resolve the join, sort.
type ReportHandler struct {
	Logs   *repository.PatrolLogRepo
	Points *repository.PointRepo
	Areas  *repository.AreaRepo
	Sites  *repository.SiteRepo
}

func NewReportHandler(
	logs *repository.PatrolLogRepo,
	points *repository.PointRepo,
	areas *repository.AreaRepo,
	sites *repository.SiteRepo,
) *ReportHandler {
	return &ReportHandler{Logs: logs, Points: points, Areas: areas, Sites: sites}
}

// queryOptions reads the shared filter/sort query parameters.
func queryOptions(c echo.Context) (report.Filters, report.SortKey, bool) {
	f := report.Filters{
		Officer:       strings.TrimSpace(c.QueryParam("officer")),
		CompanyNumber: strings.TrimSpace(c.QueryParam("company_number")),
		SiteID:        strings.TrimSpace(c.QueryParam("site_id")),
	}
	key := report.ParseSortKey(c.QueryParam("sort"))
	desc := c.QueryParam("order") == "desc"
	return f, key, desc
}

// build loads everything the report needs and runs the shared pipeline.
func (h *ReportHandler) build(ctx context.Context, f report.Filters, key report.SortKey, desc bool) ([]report.ResolvedLog, []*repository.PatrolLog, error) {
	logs, err := h.Logs.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	points, err := h.Points.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	areas, err := h.Areas.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	sites, err := h.Sites.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return report.Build(logs, points, areas, sites, f, key, desc), logs, nil
}

// PatrolLogs handles GET /v1/reports/patrol-logs. The response carries the
// resolved rows plus the distinct officer names of the FULL log set, so the
// filter dropdown does not shrink as filters narrow the rows.
func (h *ReportHandler) PatrolLogs(c echo.Context) error {
	f, key, desc := queryOptions(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, logs, err := h.build(ctx, f, key, desc)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build report failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"logs":     rows,
		"officers": report.Officers(logs),
		"total":    len(rows),
	})
}

// PatrolLogsCSV handles GET /v1/reports/patrol-logs.csv. The export honours
// the same filters and sort as the JSON view; an empty result still
// downloads a header-only file.
func (h *ReportHandler) PatrolLogsCSV(c echo.Context) error {
	f, key, desc := queryOptions(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, _, err := h.build(ctx, f, key, desc)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build report failed"})
	}
	out, err := export.ToCSV(rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render csv failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.CSVFilename+`"`)
	return c.Blob(http.StatusOK, "text/csv", out)
}

// PatrolLogsPDF handles GET /v1/reports/patrol-logs.pdf.
func (h *ReportHandler) PatrolLogsPDF(c echo.Context) error {
	f, key, desc := queryOptions(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, _, err := h.build(ctx, f, key, desc)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build report failed"})
	}
	out, err := export.ToPDF(rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render pdf failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.PDFFilename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", out)
}

type correctLogReq struct {
	OfficerName   string `json:"officer_name"`
	CompanyNumber string `json:"company_number"`
	GeoLocation   string `json:"geo_location"`
	Notes         string `json:"notes"`
}

// CorrectPatrolLog handles PUT /v1/patrol-logs/:id. Admins can fix
// officer-entered fields of an existing log (a mistyped name or company
// number); the timestamp, point binding and signature stay immutable.
func (h *ReportHandler) CorrectPatrolLog(c echo.Context) error {
	id := c.Param("id")
	var req correctLogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.OfficerName = strings.TrimSpace(req.OfficerName)
	req.CompanyNumber = strings.TrimSpace(req.CompanyNumber)
	if req.OfficerName == "" || req.CompanyNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "officer_name and company_number required"})
	}
	geo := strings.TrimSpace(req.GeoLocation)
	if geo == "" {
		geo = service.GeoUnavailable
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Logs.Correct(ctx, id, req.OfficerName, req.CompanyNumber, geo, req.Notes); err != nil {
		if err == repository.ErrLogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "patrol log not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update log failed"})
	}
	l, err := h.Logs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, l)
}
