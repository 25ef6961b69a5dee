package tabulation

import "github.com/shopspring/decimal"

type WorkRow struct {
	Role        string          `json:"role"`
	BonusAmount decimal.Decimal `json:"bonusAmount"`
	LogCount    *int64          `json:"logCount,omitempty"`
}

type Aggregates struct {
	BonusesTotal       decimal.Decimal `json:"bonusesTotal"`
	WorkerBonusesTotal decimal.Decimal `json:"workerBonusesTotal"`
	Logs               int64           `json:"logs"`
	RowCount           int             `json:"rowCount"`
}
