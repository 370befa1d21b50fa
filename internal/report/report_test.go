package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guardtrack/patrol-api/internal/repository"
)

func fixedTime(sec int) time.Time {
	return time.Date(2025, 6, 1, 12, 0, sec, 0, time.UTC)
}

func sampleData() (logs []*repository.PatrolLog, points []*repository.Point, areas []*repository.Area, sites []*repository.Site) {
	sites = []*repository.Site{
		{ID: "s1", CompanyID: "c1", Name: "HQ"},
		{ID: "s2", CompanyID: "c2", Name: "Warehouse"},
	}
	areas = []*repository.Area{
		{ID: "a1", SiteID: "s1", Name: "Lobby"},
		{ID: "a2", SiteID: "s2", Name: "Dock"},
	}
	points = []*repository.Point{
		{ID: "p1", AreaID: "a1", Description: "Front Desk", QRID: "Q1", QRCode: "Q1"},
		{ID: "p2", AreaID: "a2", Description: "Gate 4", QRID: "Q2", QRCode: "Q2"},
	}
	logs = []*repository.PatrolLog{
		{ID: "l1", Timestamp: fixedTime(1), OfficerName: "Bob", CompanyNumber: "42", PointID: "p1", SiteID: "s1", GeoLocation: "1.0, 2.0"},
		{ID: "l2", Timestamp: fixedTime(2), OfficerName: "Ann", CompanyNumber: "77", PointID: "p2", SiteID: "s2", GeoLocation: "Unavailable"},
		{ID: "l3", Timestamp: fixedTime(3), OfficerName: "Bob", CompanyNumber: "42", PointID: "p1", SiteID: "s1", GeoLocation: "1.0, 2.0"},
	}
	return
}

func TestResolveJoinsAncestry(t *testing.T) {
	logs, points, areas, sites := sampleData()
	rows := Resolve(logs, points, areas, sites)
	require.Len(t, rows, len(logs))
	require.Equal(t, "Front Desk", rows[0].PointDescription)
	require.Equal(t, "Lobby", rows[0].AreaName)
	require.Equal(t, "HQ", rows[0].SiteName)
	require.Equal(t, "Gate 4", rows[1].PointDescription)
	require.Equal(t, "Dock", rows[1].AreaName)
	require.Equal(t, "Warehouse", rows[1].SiteName)
}

func TestResolveIsTotalAndNullSafe(t *testing.T) {
	logs, points, areas, sites := sampleData()
	// A log whose point and site no longer exist still yields a row.
	logs = append(logs, &repository.PatrolLog{
		ID: "l4", Timestamp: fixedTime(4), OfficerName: "Zed", CompanyNumber: "9",
		PointID: "gone", SiteID: "gone",
	})
	rows := Resolve(logs, points, areas, sites)
	require.Len(t, rows, 4)
	last := rows[3]
	require.Equal(t, NA, last.PointDescription)
	require.Equal(t, NA, last.AreaName)
	require.Equal(t, NA, last.SiteName)

	// Point resolves but its area was pruned: description kept, area NA.
	orphanPoints := []*repository.Point{{ID: "p1", AreaID: "missing", Description: "Front Desk"}}
	rows = Resolve(logs[:1], orphanPoints, nil, sites)
	require.Equal(t, "Front Desk", rows[0].PointDescription)
	require.Equal(t, NA, rows[0].AreaName)
	require.Equal(t, "HQ", rows[0].SiteName)
}

func TestFilterIsConjunctive(t *testing.T) {
	logs, _, _, _ := sampleData()

	byOfficer := Filter(logs, Filters{Officer: "Bob"})
	require.Len(t, byOfficer, 2)

	byCompany := Filter(logs, Filters{CompanyNumber: "4"})
	require.Len(t, byCompany, 2)

	bySite := Filter(logs, Filters{SiteID: "s1"})
	require.Len(t, bySite, 2)

	// Combined filters yield the intersection of the individual ones.
	all := Filter(logs, Filters{Officer: "Bob", CompanyNumber: "4", SiteID: "s1"})
	require.Len(t, all, 2)
	require.Equal(t, "l1", all[0].ID)
	require.Equal(t, "l3", all[1].ID)

	none := Filter(logs, Filters{Officer: "Ann", SiteID: "s1"})
	require.Empty(t, none)
}

func TestFilterCompanyNumberIsCaseInsensitiveSubstring(t *testing.T) {
	logs := []*repository.PatrolLog{
		{ID: "l1", CompanyNumber: "ABC-100"},
		{ID: "l2", CompanyNumber: "xyz-200"},
	}
	require.Len(t, Filter(logs, Filters{CompanyNumber: "abc"}), 1)
	require.Len(t, Filter(logs, Filters{CompanyNumber: "XYZ"}), 1)
	require.Len(t, Filter(logs, Filters{CompanyNumber: "0"}), 2)
}

func TestSortPreservesMultiset(t *testing.T) {
	logs, points, areas, sites := sampleData()
	rows := Resolve(logs, points, areas, sites)

	Sort(rows, SortOfficerName, false)
	require.Len(t, rows, 3)
	require.Equal(t, "Ann", rows[0].OfficerName)
	require.Equal(t, "Bob", rows[1].OfficerName)
	require.Equal(t, "Bob", rows[2].OfficerName)
	// Stable: the two Bob rows keep their input order.
	require.Equal(t, "l1", rows[1].ID)
	require.Equal(t, "l3", rows[2].ID)
}

func TestSortDescendingReversesWhenNoTies(t *testing.T) {
	logs, points, areas, sites := sampleData()
	rows := Resolve(logs, points, areas, sites)

	Sort(rows, SortTimestamp, false)
	asc := make([]string, len(rows))
	for i, r := range rows {
		asc[i] = r.ID
	}
	Sort(rows, SortTimestamp, true)
	for i, r := range rows {
		require.Equal(t, asc[len(asc)-1-i], r.ID)
	}
}

func TestOfficersDistinctSorted(t *testing.T) {
	logs := []*repository.PatrolLog{
		{OfficerName: "Bob"},
		{OfficerName: "Ann"},
		{OfficerName: "Bob"},
	}
	require.Equal(t, []string{"Ann", "Bob"}, Officers(logs))
	require.Empty(t, Officers(nil))
}

func TestParseSortKeyDefaultsToTimestamp(t *testing.T) {
	require.Equal(t, SortTimestamp, ParseSortKey(""))
	require.Equal(t, SortTimestamp, ParseSortKey("bogus"))
	require.Equal(t, SortAreaName, ParseSortKey("area_name"))
	require.Equal(t, SortOfficerName, ParseSortKey(" Officer_Name "))
}

func TestBuildEndToEnd(t *testing.T) {
	// Mirrors the full scenario: Acme -> HQ -> Lobby -> Front Desk, one log.
	sites := []*repository.Site{{ID: "s1", CompanyID: "acme", Name: "HQ"}}
	areas := []*repository.Area{{ID: "a1", SiteID: "s1", Name: "Lobby"}}
	points := []*repository.Point{{ID: "p1", AreaID: "a1", Description: "Front Desk", QRID: "Q1"}}
	logs := []*repository.PatrolLog{{
		ID: "l1", Timestamp: fixedTime(0), OfficerName: "Jane Doe",
		CompanyNumber: "42", PointID: "p1", SiteID: "s1", Signature: "<data>",
	}}

	rows := Build(logs, points, areas, sites, Filters{}, SortTimestamp, false)
	require.Len(t, rows, 1)
	require.Equal(t, "Jane Doe", rows[0].OfficerName)
	require.Equal(t, "Lobby", rows[0].AreaName)
	require.Equal(t, "Front Desk", rows[0].PointDescription)
	require.Equal(t, "HQ", rows[0].SiteName)
}
