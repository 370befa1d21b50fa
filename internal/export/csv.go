// Package export serializes resolved report rows into downloadable files.
// Every formatter operates on the exact rows the report resolver produced,
// so exports always reflect the current filter and sort state, never the
// raw log set.
package export

import (
	"bytes"
	"encoding/csv"

	"github.com/guardtrack/patrol-api/internal/report"
)

// CSVFilename is the attachment name clients receive for CSV exports.
const CSVFilename = "patrol-logs.csv"

// timestampLayout is the fixed format used for exported timestamps. Logs are
// stored in UTC and exported in UTC.
const timestampLayout = "2006-01-02 15:04:05"

// csvHeader is the column order shared by the CSV and PDF exports.
var csvHeader = []string{"Timestamp", "Officer Name", "Company Number", "Area", "Point Description", "Geo Location"}

// ToCSV renders the rows as CSV bytes. An empty row set produces a
// header-only file rather than no output, so a download of a filtered-down
// report is still a valid CSV.
func ToCSV(rows []report.ResolvedLog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		rec := []string{
			r.Timestamp.UTC().Format(timestampLayout),
			r.OfficerName,
			r.CompanyNumber,
			r.AreaName,
			r.PointDescription,
			r.GeoLocation,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
