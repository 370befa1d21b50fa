package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/guardtrack/patrol-api/internal/report"
	"github.com/guardtrack/patrol-api/internal/repository"
)

// LabelsFilename is the attachment name for the printable QR label sheet.
const LabelsFilename = "patrol-points.pdf"

// Label is one printable QR label: the encoded payload plus the
// human-readable point description and its resolved ancestry. Ancestry that
// no longer resolves degrades to the NA sentinel, same as the report join.
type Label struct {
	Payload     string
	Description string
	Area        string
	Site        string
}

// BuildLabels resolves every point against the area and site collections
// into printable labels. The QR payload is the point's qr_code, which the
// repository defaults to qr_id at insert time.
func BuildLabels(points []*repository.Point, areas []*repository.Area, sites []*repository.Site) []Label {
	areasByID := make(map[string]*repository.Area, len(areas))
	for _, a := range areas {
		areasByID[a.ID] = a
	}
	sitesByID := make(map[string]*repository.Site, len(sites))
	for _, s := range sites {
		sitesByID[s.ID] = s
	}
	out := make([]Label, 0, len(points))
	for _, p := range points {
		l := Label{Payload: p.QRCode, Description: p.Description, Area: report.NA, Site: report.NA}
		if l.Payload == "" {
			l.Payload = p.QRID
		}
		if a, ok := areasByID[p.AreaID]; ok {
			l.Area = a.Name
			if s, ok := sitesByID[a.SiteID]; ok {
				l.Site = s.Name
			}
		}
		out = append(out, l)
	}
	return out
}

// Label sheet geometry: three labels per row on portrait A4.
const (
	labelsPerRow = 3
	labelWidth   = 63.0
	labelHeight  = 78.0
	labelMargin  = 5.0
	qrSize       = 45.0
)

// ToLabelsPDF renders one QR label per point in a print-oriented grid. Each
// label carries the scannable code, the payload string, the point
// description and its area and site. An empty point set yields a valid
// single-page document with no labels.
func ToLabelsPDF(labels []Label) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	perPage := labelsPerRow * 3
	for i, l := range labels {
		if i > 0 && i%perPage == 0 {
			pdf.AddPage()
		}
		slot := i % perPage
		x := labelMargin + float64(slot%labelsPerRow)*(labelWidth+labelMargin)
		y := labelMargin + float64(slot/labelsPerRow)*(labelHeight+labelMargin)

		png, err := qrcode.Encode(l.Payload, qrcode.Medium, 256)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("qr-%d", i)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))

		pdf.Rect(x, y, labelWidth, labelHeight, "D")
		pdf.ImageOptions(name, x+(labelWidth-qrSize)/2, y+3, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

		textY := y + qrSize + 5
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(x+2, textY)
		pdf.CellFormat(labelWidth-4, 5, l.Payload, "", 2, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(labelWidth-4, 4, l.Description, "", 2, "C", false, 0, "")
		pdf.CellFormat(labelWidth-4, 4, l.Area+" / "+l.Site, "", 2, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
