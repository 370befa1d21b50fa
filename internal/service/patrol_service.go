// Package service implements the patrol flow behind the HTTP handlers: scan
// resolution and patrol log submission. Repositories are consumed through
// narrow interfaces so the flow can be exercised in tests without a
// database.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guardtrack/patrol-api/internal/report"
	"github.com/guardtrack/patrol-api/internal/repository"
)

// GeoUnavailable is recorded when the officer's device could not supply a
// location. Geolocation is best-effort and its absence never blocks a
// submission.
const GeoUnavailable = "Unavailable"

// ErrValidation wraps all missing-required-field failures so handlers can
// answer 400 with the wrapped message.
var ErrValidation = errors.New("validation failed")

// PointLookup resolves patrol points by scan key or id.
type PointLookup interface {
	GetByQRID(ctx context.Context, qrID string) (*repository.Point, error)
}

// AreaLookup resolves areas by id.
type AreaLookup interface {
	GetByID(ctx context.Context, id string) (*repository.Area, error)
}

// SiteLookup resolves sites by id.
type SiteLookup interface {
	GetByID(ctx context.Context, id string) (*repository.Site, error)
}

// LogAppender appends immutable patrol log rows.
type LogAppender interface {
	Create(ctx context.Context, l *repository.PatrolLog) error
}

// PointDetails is the confirmation payload shown to an officer after a
// successful scan: the point description plus its resolved ancestry.
// Ancestry that cannot be found degrades to the "N/A" sentinel instead of
// failing the lookup.
type PointDetails struct {
	Description string `json:"description"`
	Area        string `json:"area"`
	Site        string `json:"site"`
}

// SubmitInput carries the officer-supplied fields of one patrol log
// submission.
type SubmitInput struct {
	QRID          string
	OfficerName   string
	CompanyNumber string
	GeoLocation   string
	Signature     string
	Notes         string
}

// PatrolService coordinates scan resolution and log submission.
type PatrolService struct {
	points PointLookup
	areas  AreaLookup
	sites  SiteLookup
	logs   LogAppender
}

// NewPatrolService wires the service with its lookups and the log appender.
func NewPatrolService(points PointLookup, areas AreaLookup, sites SiteLookup, logs LogAppender) *PatrolService {
	return &PatrolService{points: points, areas: areas, sites: sites, logs: logs}
}

// ResolveScan performs the exact-match qr id lookup. It returns
// repository.ErrPointNotFound when no point owns the scanned code; any other
// outcome yields the point and its describable ancestry.
func (s *PatrolService) ResolveScan(ctx context.Context, qrID string) (*repository.Point, PointDetails, error) {
	p, err := s.points.GetByQRID(ctx, strings.TrimSpace(qrID))
	if err != nil {
		return nil, PointDetails{}, err
	}
	return p, s.describe(ctx, p), nil
}

// describe resolves the owning area and site of a point, substituting the
// N/A sentinel for any ancestor that cannot be found. A dangling reference
// degrades the description, it never fails the lookup.
func (s *PatrolService) describe(ctx context.Context, p *repository.Point) PointDetails {
	d := PointDetails{Description: p.Description, Area: report.NA, Site: report.NA}
	area, err := s.areas.GetByID(ctx, p.AreaID)
	if err != nil {
		return d
	}
	d.Area = area.Name
	site, err := s.sites.GetByID(ctx, area.SiteID)
	if err != nil {
		return d
	}
	d.Site = site.Name
	return d
}

// Submit validates the officer input, resolves the scanned point and appends
// one immutable patrol log row. Officer name, company number and signature
// are required; notes are optional; a blank geolocation is recorded as the
// Unavailable sentinel. The created log and the point details for the
// confirmation message are returned.
func (s *PatrolService) Submit(ctx context.Context, in SubmitInput) (*repository.PatrolLog, PointDetails, error) {
	if strings.TrimSpace(in.OfficerName) == "" {
		return nil, PointDetails{}, fmt.Errorf("%w: officer name is required", ErrValidation)
	}
	if strings.TrimSpace(in.CompanyNumber) == "" {
		return nil, PointDetails{}, fmt.Errorf("%w: company number is required", ErrValidation)
	}
	if strings.TrimSpace(in.Signature) == "" {
		return nil, PointDetails{}, fmt.Errorf("%w: signature is required", ErrValidation)
	}

	point, details, err := s.ResolveScan(ctx, in.QRID)
	if err != nil {
		return nil, PointDetails{}, err
	}

	// The site id is denormalized onto the log at submission time. When the
	// ancestry is already dangling it is stored empty and reports degrade to
	// N/A later.
	siteID := ""
	if area, err := s.areas.GetByID(ctx, point.AreaID); err == nil {
		if site, err := s.sites.GetByID(ctx, area.SiteID); err == nil {
			siteID = site.ID
		}
	}

	geo := strings.TrimSpace(in.GeoLocation)
	if geo == "" {
		geo = GeoUnavailable
	}

	log := &repository.PatrolLog{
		OfficerName:   strings.TrimSpace(in.OfficerName),
		CompanyNumber: strings.TrimSpace(in.CompanyNumber),
		PointID:       point.ID,
		SiteID:        siteID,
		GeoLocation:   geo,
		Signature:     in.Signature,
		Notes:         strings.TrimSpace(in.Notes),
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, PointDetails{}, err
	}
	return log, details, nil
}
