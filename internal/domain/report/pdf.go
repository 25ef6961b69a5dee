package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"dailypay/internal/domain/payout"
)

// PDF lays the rendered text out on A4 pages, one line per text line.
func PDF(r payout.Report, warnings map[string]int, owners Owners, now time.Time) ([]byte, error) {
	text := Render(r, warnings, owners, now)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Daily payout %s", now.Format("2006-01-02")), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Daily payout")
	pdf.Ln(12)

	pdf.SetFont("Courier", "", 11)
	for _, line := range strings.Split(text, "\n") {
		if line == separator {
			y := pdf.GetY()
			width, _ := pdf.GetPageSize()
			left, _, right, _ := pdf.GetMargins()
			pdf.Line(left, y+3, width-right, y+3)
			pdf.Ln(6)
			continue
		}
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
