package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guardtrack/patrol-api/internal/report"
	"github.com/guardtrack/patrol-api/internal/repository"
)

func sampleRows() []report.ResolvedLog {
	ts := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	return []report.ResolvedLog{
		{
			PatrolLog: repository.PatrolLog{
				ID: "l1", Timestamp: ts, OfficerName: "Jane Doe", CompanyNumber: "42",
				PointID: "p1", SiteID: "s1", GeoLocation: "51.50000, -0.12000",
			},
			PointDescription: "Front Desk",
			AreaName:         "Lobby",
			SiteName:         "HQ",
		},
		{
			PatrolLog: repository.PatrolLog{
				ID: "l2", Timestamp: ts.Add(time.Hour), OfficerName: "Bob", CompanyNumber: "77",
				PointID: "gone", SiteID: "gone", GeoLocation: "Unavailable",
			},
			PointDescription: report.NA,
			AreaName:         report.NA,
			SiteName:         report.NA,
		},
	}
}

func TestToCSVRoundTrip(t *testing.T) {
	rows := sampleRows()
	out, err := ToCSV(rows)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)

	require.Equal(t, []string{"Timestamp", "Officer Name", "Company Number", "Area", "Point Description", "Geo Location"}, records[0])
	for i, r := range rows {
		rec := records[i+1]
		require.Equal(t, r.Timestamp.UTC().Format("2006-01-02 15:04:05"), rec[0])
		require.Equal(t, r.OfficerName, rec[1])
		require.Equal(t, r.CompanyNumber, rec[2])
		require.Equal(t, r.AreaName, rec[3])
		require.Equal(t, r.PointDescription, rec[4])
		require.Equal(t, r.GeoLocation, rec[5])
	}
}

func TestToCSVEmptyEmitsHeaderOnly(t *testing.T) {
	out, err := ToCSV(nil)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestToPDFProducesDocument(t *testing.T) {
	out, err := ToPDF(sampleRows())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	// Empty input is still a valid document, not an error.
	empty, err := ToPDF(nil)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}

func TestBuildLabelsDegradesGracefully(t *testing.T) {
	points := []*repository.Point{
		{ID: "p1", AreaID: "a1", Description: "Front Desk", QRCode: "PAYLOAD-1", QRID: "Q1"},
		{ID: "p2", AreaID: "missing", Description: "Gate 4", QRCode: "", QRID: "Q2"},
	}
	areas := []*repository.Area{{ID: "a1", SiteID: "s1", Name: "Lobby"}}
	sites := []*repository.Site{{ID: "s1", CompanyID: "c1", Name: "HQ"}}

	labels := BuildLabels(points, areas, sites)
	require.Len(t, labels, 2)

	require.Equal(t, "PAYLOAD-1", labels[0].Payload)
	require.Equal(t, "Lobby", labels[0].Area)
	require.Equal(t, "HQ", labels[0].Site)

	// Empty qr_code falls back to qr_id; missing ancestry degrades to N/A.
	require.Equal(t, "Q2", labels[1].Payload)
	require.Equal(t, report.NA, labels[1].Area)
	require.Equal(t, report.NA, labels[1].Site)
}

func TestToLabelsPDF(t *testing.T) {
	labels := []Label{
		{Payload: "Q1", Description: "Front Desk", Area: "Lobby", Site: "HQ"},
		{Payload: "Q2", Description: "Gate 4", Area: report.NA, Site: report.NA},
	}
	out, err := ToLabelsPDF(labels)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty, err := ToLabelsPDF(nil)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}
