// Package report turns raw patrol logs into display-ready rows. It joins
// logs against the current point/area/site state, applies conjunctive
// filters, sorts by a single key and derives the officer list used by the
// filter dropdown. Everything here is a pure function of its inputs; the
// handlers load the collections and call in.
package report

import (
	"sort"
	"strings"

	"github.com/guardtrack/patrol-api/internal/repository"
)

// NA is the sentinel shown for any field whose join target no longer
// resolves. Join misses are not errors: a log whose point, area or site was
// pruned by a cascade still appears in the report with NA in the affected
// columns.
const NA = "N/A"

// ResolvedLog is one display-ready report row: the raw log plus the joined
// point description, area name and site name.
type ResolvedLog struct {
	repository.PatrolLog
	PointDescription string `json:"point_description"`
	AreaName         string `json:"area_name"`
	SiteName         string `json:"site_name"`
}

// Filters narrows the log set before resolution. All fields are optional and
// combine conjunctively: Officer matches exactly, CompanyNumber matches as a
// case-insensitive substring, SiteID matches exactly.
type Filters struct {
	Officer       string
	CompanyNumber string
	SiteID        string
}

// SortKey names a sortable report column.
type SortKey string

const (
	SortTimestamp        SortKey = "timestamp"
	SortOfficerName      SortKey = "officer_name"
	SortCompanyNumber    SortKey = "company_number"
	SortAreaName         SortKey = "area_name"
	SortPointDescription SortKey = "point_description"
)

// ParseSortKey maps a query parameter onto a SortKey, defaulting to
// timestamp for unknown or empty input.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortOfficerName:
		return SortOfficerName
	case SortCompanyNumber:
		return SortCompanyNumber
	case SortAreaName:
		return SortAreaName
	case SortPointDescription:
		return SortPointDescription
	default:
		return SortTimestamp
	}
}

// Filter returns the logs matching every set filter. Unset filters pass
// everything, so zero-value Filters returns the input unchanged.
func Filter(logs []*repository.PatrolLog, f Filters) []*repository.PatrolLog {
	needle := strings.ToLower(f.CompanyNumber)
	out := make([]*repository.PatrolLog, 0, len(logs))
	for _, l := range logs {
		if f.Officer != "" && l.OfficerName != f.Officer {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(l.CompanyNumber), needle) {
			continue
		}
		if f.SiteID != "" && l.SiteID != f.SiteID {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Resolve joins each log against the point, area and site collections. The
// point is found by the log's point id and the area through that point; the
// site is looked up by the site id denormalized onto the log itself. Any
// miss yields NA for that field and the row is kept. The join is total: the
// output always has exactly one row per input log.
func Resolve(logs []*repository.PatrolLog, points []*repository.Point, areas []*repository.Area, sites []*repository.Site) []ResolvedLog {
	pointsByID := make(map[string]*repository.Point, len(points))
	for _, p := range points {
		pointsByID[p.ID] = p
	}
	areasByID := make(map[string]*repository.Area, len(areas))
	for _, a := range areas {
		areasByID[a.ID] = a
	}
	sitesByID := make(map[string]*repository.Site, len(sites))
	for _, s := range sites {
		sitesByID[s.ID] = s
	}

	out := make([]ResolvedLog, 0, len(logs))
	for _, l := range logs {
		row := ResolvedLog{
			PatrolLog:        *l,
			PointDescription: NA,
			AreaName:         NA,
			SiteName:         NA,
		}
		if p, ok := pointsByID[l.PointID]; ok {
			row.PointDescription = p.Description
			if a, ok := areasByID[p.AreaID]; ok {
				row.AreaName = a.Name
			}
		}
		if s, ok := sitesByID[l.SiteID]; ok {
			row.SiteName = s.Name
		}
		out = append(out, row)
	}
	return out
}

// Sort orders rows by a single key. A stable sort keeps ties in input
// order. Pass descending=true to flip the direction.
func Sort(rows []ResolvedLog, key SortKey, descending bool) {
	less := func(a, b ResolvedLog) bool {
		switch key {
		case SortOfficerName:
			return a.OfficerName < b.OfficerName
		case SortCompanyNumber:
			return a.CompanyNumber < b.CompanyNumber
		case SortAreaName:
			return a.AreaName < b.AreaName
		case SortPointDescription:
			return a.PointDescription < b.PointDescription
		default:
			return a.Timestamp.Before(b.Timestamp)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if descending {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// Officers returns the distinct officer names across all logs, sorted
// ascending. The reporting UI feeds this into its filter dropdown and
// recomputes it whenever the log set changes.
func Officers(logs []*repository.PatrolLog) []string {
	seen := make(map[string]struct{}, len(logs))
	var out []string
	for _, l := range logs {
		if _, ok := seen[l.OfficerName]; ok {
			continue
		}
		seen[l.OfficerName] = struct{}{}
		out = append(out, l.OfficerName)
	}
	sort.Strings(out)
	return out
}

// Build runs the full pipeline: filter, resolve, sort. It is the single
// entry point the report and export handlers share, so an export always
// reflects the same rows the report view shows.
func Build(logs []*repository.PatrolLog, points []*repository.Point, areas []*repository.Area, sites []*repository.Site, f Filters, key SortKey, descending bool) []ResolvedLog {
	rows := Resolve(Filter(logs, f), points, areas, sites)
	Sort(rows, key, descending)
	return rows
}
