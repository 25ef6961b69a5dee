package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dailypay/internal/domain/ledger"
	"dailypay/internal/domain/payout"
)

const (
	separator       = "—"
	timestampFormat = "2006-01-02 15:04"
)

type Owners struct {
	A string
	B string
}

func DefaultOwners() Owners {
	return Owners{A: "Ivan", B: "Julian"}
}

// Render formats the breakdown. The layout is consumed by downstream tools and
// must stay byte-for-byte stable.
func Render(r payout.Report, warnings map[string]int, owners Owners, now time.Time) string {
	in := r.Inputs
	var b strings.Builder

	fmt.Fprintf(&b, "Bonuses: %s\nwbonuses: %s\n\n", usd(in.BonusesTotal), usd(in.WorkerBonusesTotal))
	fmt.Fprintf(&b, "bonuses profits: %s - %s = %s\n\n", usd(in.BonusesTotal), usd(in.WorkerBonusesTotal), usd(r.BonusProfit))
	fmt.Fprintf(&b, "%s split to:\n", num(r.BonusProfit))
	fmt.Fprintf(&b, "35%% %s=%s\n35%% %s=%s\n30%% Squad=%s\n%s\n\n",
		owners.A, usd(r.OwnerAShare), owners.B, usd(r.OwnerBShare), usd(r.SquadBonusShare), separator)

	fmt.Fprintf(&b, "Labor: %s\nExpenses:\n- Management=%s\n- Labor=%s\n\n",
		usd(r.LaborTotal), usd(r.ManagementExpense), usd(r.WorkerLaborExpense))
	fmt.Fprintf(&b, "Squad profit: %s\n%s\n\n", usd(r.SquadLaborProfit), separator)

	fmt.Fprintf(&b, "Other:\n%s\n%s\n\n", orNone(otherLines(r)), separator)
	fmt.Fprintf(&b, "Warning count:\n%s\n%s\n\n", orNone(WarningLines(warnings)), separator)

	b.WriteString("Total:\n")
	for _, line := range totalLines(r, owners) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nGenerated: %s", now.Format(timestampFormat))
	return b.String()
}

// WarningLines lists every worker with a nonzero counter, sorted by id.
func WarningLines(warnings map[string]int) []string {
	workers := make([]string, 0, len(warnings))
	for worker, count := range warnings {
		if count > 0 {
			workers = append(workers, worker)
		}
	}
	sort.Strings(workers)

	lines := make([]string, 0, len(workers))
	for _, worker := range workers {
		count := warnings[worker]
		if count >= ledger.FiredThreshold {
			lines = append(lines, fmt.Sprintf("%s %d/%d warnings – FIRED", worker, ledger.FiredThreshold, ledger.FiredThreshold))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %d/%d warning", worker, count, ledger.FiredThreshold))
	}
	return lines
}

func otherLines(r payout.Report) []string {
	lines := make([]string, 0, len(r.Inputs.Penalties)+1)
	for _, penalty := range r.Inputs.Penalties {
		lines = append(lines, fmt.Sprintf("%s -%s", penalty.Worker, usd(penalty.Amount)))
	}
	if r.Inputs.CrossCheckerLogs > 0 {
		lines = append(lines, fmt.Sprintf("cross_checker -%s (%d logs)", usd(r.CrossCheckerCost), r.Inputs.CrossCheckerLogs))
	}
	return lines
}

type stakeholder struct {
	Name       string
	Components []decimal.Decimal
	Total      decimal.Decimal
}

// stakeholders lists each payee with the parts that make up its total. Penalty
// shares only appear when a penalty was recorded.
func stakeholders(r payout.Report, owners Owners) []stakeholder {
	penalties := r.Inputs.PenaltyTotal.IsPositive()
	withPenalty := func(parts []decimal.Decimal, share decimal.Decimal) []decimal.Decimal {
		if penalties {
			return append(parts, share)
		}
		return parts
	}
	return []stakeholder{
		{Name: owners.A, Components: withPenalty([]decimal.Decimal{r.OwnerAShare}, r.PenaltyShareA), Total: r.OwnerATotal},
		{Name: owners.B, Components: withPenalty([]decimal.Decimal{r.OwnerBShare, r.ManagementExpense}, r.PenaltyShareB), Total: r.OwnerBTotal},
		{Name: "Squad", Components: withPenalty([]decimal.Decimal{r.SquadBonusShare, r.SquadLaborProfit}, r.PenaltySquadShare), Total: r.SquadTotal},
		{Name: "Workers", Components: []decimal.Decimal{r.Inputs.WorkerBonusesTotal, r.WorkerLaborExpense}, Total: r.WorkersTotal},
	}
}

func totalLines(r payout.Report, owners Owners) []string {
	var lines []string
	for _, s := range stakeholders(r, owners) {
		if len(s.Components) == 1 {
			lines = append(lines, fmt.Sprintf("%s – %s", s.Name, usd(s.Total)))
			continue
		}
		parts := make([]string, len(s.Components))
		for i, c := range s.Components {
			parts[i] = usd(c)
		}
		lines = append(lines, fmt.Sprintf("%s – %s=%s", s.Name, strings.Join(parts, "+"), usd(s.Total)))
	}
	return lines
}

func orNone(lines []string) string {
	if len(lines) == 0 {
		return "None"
	}
	return strings.Join(lines, "\n")
}

func num(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func usd(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
