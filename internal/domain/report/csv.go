package report

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"

	"dailypay/internal/domain/payout"
)

type totalRow struct {
	Stakeholder string `csv:"stakeholder"`
	Components  string `csv:"components"`
	Total       string `csv:"total"`
}

// CSV exports one row per stakeholder with the parts of its total.
func CSV(r payout.Report, owners Owners) ([]byte, error) {
	var rows []*totalRow
	for _, s := range stakeholders(r, owners) {
		parts := make([]string, len(s.Components))
		for i, c := range s.Components {
			parts[i] = num(c)
		}
		rows = append(rows, &totalRow{
			Stakeholder: s.Name,
			Components:  strings.Join(parts, "+"),
			Total:       num(s.Total),
		})
	}
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("rendering csv: %w", err)
	}
	return out, nil
}
