package payout

import (
	"strings"

	"github.com/shopspring/decimal"
)

func Calculate(in Inputs) (Report, error) {
	if err := validate(in); err != nil {
		return Report{}, err
	}

	logs := decimal.NewFromInt(in.Logs)
	crossLogs := decimal.NewFromInt(in.CrossCheckerLogs)

	bonusProfit := in.BonusesTotal.Sub(in.WorkerBonusesTotal)
	laborTotal := logs.Mul(FullRatePerLog)
	managementExpense := logs.Mul(ManagementCutPerLog)
	workerLaborExpense := logs.Mul(WorkerPayPerLog)
	crossCheckerCost := crossLogs.Mul(WorkerPayPerLog)
	squadLaborProfit := laborTotal.Sub(managementExpense).Sub(workerLaborExpense).Sub(crossCheckerCost)

	report := Report{
		Inputs:             copyInputs(in),
		BonusProfit:        bonusProfit,
		OwnerAShare:        share(bonusProfit, OwnerAPercent),
		OwnerBShare:        share(bonusProfit, OwnerBPercent),
		SquadBonusShare:    share(bonusProfit, SquadPercent),
		LaborTotal:         laborTotal,
		ManagementExpense:  managementExpense,
		WorkerLaborExpense: workerLaborExpense,
		CrossCheckerCost:   crossCheckerCost,
		SquadLaborProfit:   squadLaborProfit,
		PenaltyShareA:      share(in.PenaltyTotal, OwnerAPercent),
		PenaltyShareB:      share(in.PenaltyTotal, OwnerBPercent),
		PenaltySquadShare:  share(in.PenaltyTotal, SquadPercent),
	}
	report.OwnerATotal = report.OwnerAShare.Add(report.PenaltyShareA)
	report.OwnerBTotal = report.OwnerBShare.Add(managementExpense).Add(report.PenaltyShareB)
	report.SquadTotal = report.SquadBonusShare.Add(squadLaborProfit).Add(report.PenaltySquadShare)
	report.WorkersTotal = in.WorkerBonusesTotal.Add(workerLaborExpense)
	return report, nil
}

// SumPenalties totals the penalty amounts.
func SumPenalties(penalties []Penalty) decimal.Decimal {
	total := decimal.Zero
	for _, penalty := range penalties {
		total = total.Add(penalty.Amount)
	}
	return total
}

// share rounds each split on its own so the three parts may differ from the
// whole by a cent.
func share(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Round(moneyPlaces)
}

func validate(in Inputs) error {
	switch {
	case in.BonusesTotal.IsNegative():
		return &ValidationError{Field: "bonusesTotal", Reason: "must not be negative"}
	case in.WorkerBonusesTotal.IsNegative():
		return &ValidationError{Field: "workerBonusesTotal", Reason: "must not be negative"}
	case in.Logs < 0:
		return &ValidationError{Field: "logs", Reason: "must not be negative"}
	case in.CrossCheckerLogs < 0:
		return &ValidationError{Field: "crossCheckerLogs", Reason: "must not be negative"}
	case in.PenaltyTotal.IsNegative():
		return &ValidationError{Field: "penaltyTotal", Reason: "must not be negative"}
	case in.WorkerBonusesTotal.GreaterThan(in.BonusesTotal):
		return &ValidationError{Field: "workerBonusesTotal", Reason: "must not exceed bonusesTotal"}
	}
	for _, penalty := range in.Penalties {
		if strings.TrimSpace(penalty.Worker) == "" {
			return &ValidationError{Field: "penalties", Reason: "worker is required"}
		}
		if !penalty.Amount.IsPositive() {
			return &ValidationError{Field: "penalties", Reason: "amount for " + penalty.Worker + " must be positive"}
		}
	}
	if len(in.Penalties) > 0 && !SumPenalties(in.Penalties).Equal(in.PenaltyTotal) {
		return &ValidationError{Field: "penaltyTotal", Reason: "does not match the penalty lines"}
	}
	return nil
}

func copyInputs(in Inputs) Inputs {
	out := in
	if in.Penalties != nil {
		out.Penalties = make([]Penalty, len(in.Penalties))
		copy(out.Penalties, in.Penalties)
	}
	return out
}
