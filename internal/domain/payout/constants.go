package payout

import "github.com/shopspring/decimal"

// Per-log rates. FullRatePerLog is the sum of the three parts.
var (
	WorkerPayPerLog     = decimal.RequireFromString("0.075")
	ManagementCutPerLog = decimal.RequireFromString("0.02")
	SquadMarginPerLog   = decimal.RequireFromString("0.055")
	FullRatePerLog      = WorkerPayPerLog.Add(ManagementCutPerLog).Add(SquadMarginPerLog)
)

// Split percentages applied to bonus profit and to penalties.
var (
	OwnerAPercent = decimal.RequireFromString("0.35")
	OwnerBPercent = decimal.RequireFromString("0.35")
	SquadPercent  = decimal.RequireFromString("0.30")
)

const moneyPlaces = 2
