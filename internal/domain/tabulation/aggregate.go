package tabulation

import (
	"strings"

	"github.com/shopspring/decimal"
)

const roleWorker = "worker"

// Aggregate sums the rows. Logs falls back to the row count when the file has
// no log-count column.
func Aggregate(rows []WorkRow) Aggregates {
	agg := Aggregates{
		BonusesTotal:       decimal.Zero,
		WorkerBonusesTotal: decimal.Zero,
		RowCount:           len(rows),
	}
	hasLogs := false
	for _, row := range rows {
		agg.BonusesTotal = agg.BonusesTotal.Add(row.BonusAmount)
		if strings.ToLower(strings.TrimSpace(row.Role)) == roleWorker {
			agg.WorkerBonusesTotal = agg.WorkerBonusesTotal.Add(row.BonusAmount)
		}
		if row.LogCount != nil {
			hasLogs = true
			agg.Logs += *row.LogCount
		}
	}
	if !hasLogs {
		agg.Logs = int64(len(rows))
	}
	return agg
}
