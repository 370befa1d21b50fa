package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"github.com/guardtrack/patrol-api/internal/report"
)

// PDFFilename is the attachment name clients receive for PDF exports.
const PDFFilename = "patrol-logs.pdf"

// reportColWidths lays the six columns out on a landscape A4 page
// (277mm printable width). The order matches csvHeader.
var reportColWidths = []float64{42, 45, 35, 45, 65, 45}

// ToPDF renders the rows as a tabular PDF document: a title, a bold header
// row and one fixed-width grid row per resolved log. An empty row set
// produces a valid document containing only the header row.
func ToPDF(rows []report.ResolvedLog) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Patrol Logs", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range csvHeader {
		pdf.CellFormat(reportColWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		cells := []string{
			r.Timestamp.UTC().Format(timestampLayout),
			r.OfficerName,
			r.CompanyNumber,
			r.AreaName,
			r.PointDescription,
			r.GeoLocation,
		}
		for i, cell := range cells {
			pdf.CellFormat(reportColWidths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
