package payout

import "github.com/shopspring/decimal"

type Penalty struct {
	Worker string          `json:"worker"`
	Amount decimal.Decimal `json:"amount"`
}

type Inputs struct {
	BonusesTotal       decimal.Decimal `json:"bonusesTotal"`
	WorkerBonusesTotal decimal.Decimal `json:"workerBonusesTotal"`
	Logs               int64           `json:"logs"`
	CrossCheckerLogs   int64           `json:"crossCheckerLogs"`
	PenaltyTotal       decimal.Decimal `json:"penaltyTotal"`
	Penalties          []Penalty       `json:"penalties"`
}

// Report is the full breakdown for one day. Values are never mutated after
// Calculate returns.
type Report struct {
	Inputs Inputs `json:"inputs"`

	BonusProfit     decimal.Decimal `json:"bonusProfit"`
	OwnerAShare     decimal.Decimal `json:"ownerAShare"`
	OwnerBShare     decimal.Decimal `json:"ownerBShare"`
	SquadBonusShare decimal.Decimal `json:"squadBonusShare"`

	LaborTotal         decimal.Decimal `json:"laborTotal"`
	ManagementExpense  decimal.Decimal `json:"managementExpense"`
	WorkerLaborExpense decimal.Decimal `json:"workerLaborExpense"`
	CrossCheckerCost   decimal.Decimal `json:"crossCheckerCost"`
	SquadLaborProfit   decimal.Decimal `json:"squadLaborProfit"`

	PenaltyShareA     decimal.Decimal `json:"penaltyShareA"`
	PenaltyShareB     decimal.Decimal `json:"penaltyShareB"`
	PenaltySquadShare decimal.Decimal `json:"penaltySquadShare"`

	OwnerATotal  decimal.Decimal `json:"ownerATotal"`
	OwnerBTotal  decimal.Decimal `json:"ownerBTotal"`
	SquadTotal   decimal.Decimal `json:"squadTotal"`
	WorkersTotal decimal.Decimal `json:"workersTotal"`
}
