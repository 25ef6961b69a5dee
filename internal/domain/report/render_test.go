package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dailypay/internal/domain/ledger"
	"dailypay/internal/domain/payout"
)

var generatedAt = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func calculate(t *testing.T, in payout.Inputs) payout.Report {
	t.Helper()
	r, err := payout.Calculate(in)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	return r
}

func TestRenderWithoutAdjustments(t *testing.T) {
	r := calculate(t, payout.Inputs{
		BonusesTotal:       decimal.NewFromInt(100),
		WorkerBonusesTotal: decimal.NewFromInt(40),
		Logs:               1000,
	})

	want := `Bonuses: $100.00
wbonuses: $40.00

bonuses profits: $100.00 - $40.00 = $60.00

60.00 split to:
35% Ivan=$21.00
35% Julian=$21.00
30% Squad=$18.00
—

Labor: $150.00
Expenses:
- Management=$20.00
- Labor=$75.00

Squad profit: $55.00
—

Other:
None
—

Warning count:
None
—

Total:
Ivan – $21.00
Julian – $21.00+$20.00=$41.00
Squad – $18.00+$55.00=$73.00
Workers – $40.00+$75.00=$115.00

Generated: 2026-10-14 09:30`

	got := Render(r, nil, DefaultOwners(), generatedAt)
	if got != want {
		t.Fatalf("unexpected report:\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderAdjustmentsAndWarnings(t *testing.T) {
	r := calculate(t, payout.Inputs{
		BonusesTotal:       decimal.NewFromInt(100),
		WorkerBonusesTotal: decimal.NewFromInt(40),
		Logs:               1000,
		CrossCheckerLogs:   10,
		PenaltyTotal:       decimal.NewFromInt(10),
		Penalties: []payout.Penalty{
			{Worker: "Alex", Amount: decimal.NewFromInt(4)},
			{Worker: "sam", Amount: decimal.NewFromInt(6)},
		},
	})
	warnings := map[string]int{"sam": 1, "alex": 3, "kim": 0, "lee": 7}

	got := Render(r, warnings, Owners{A: "Ann", B: "Bo"}, generatedAt)

	for _, want := range []string{
		"Other:\nAlex -$4.00\nsam -$6.00\ncross_checker -$0.75 (10 logs)\n—",
		"Warning count:\nalex 3/3 warnings – FIRED\nlee 3/3 warnings – FIRED\nsam 1/3 warning\n—",
		"35% Ann=$21.00\n35% Bo=$21.00",
		"Ann – $21.00+$3.50=$24.50\n",
		"Bo – $21.00+$20.00+$3.50=$44.50\n",
		"Squad – $18.00+$54.25+$3.00=$75.25\n",
		"Squad profit: $54.25\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected report to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "kim") {
		t.Fatal("expected zero counters to be omitted")
	}
}

func TestWarningLines(t *testing.T) {
	lines := WarningLines(map[string]int{"b": 2, "a": 1, "c": 3})
	want := []string{"a 1/3 warning", "b 2/3 warning", "c 3/3 warnings – FIRED"}
	if len(lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("expected %q, got %q", want[i], lines[i])
		}
	}
}

func TestWarningLinesAgreeWithLedger(t *testing.T) {
	warnings := ledger.Warnings{"alex": ledger.FiredThreshold - 1, "sam": ledger.FiredThreshold, "kim": ledger.FiredThreshold + 2}
	lines := WarningLines(warnings)
	for _, line := range lines {
		worker := strings.Fields(line)[0]
		if fired := strings.HasSuffix(line, "FIRED"); fired != warnings.Fired(worker) {
			t.Fatalf("%s: line %q disagrees with ledger fired=%v", worker, line, warnings.Fired(worker))
		}
	}
}

func TestPDF(t *testing.T) {
	r := calculate(t, payout.Inputs{BonusesTotal: decimal.NewFromInt(10), Logs: 10})
	out, err := PDF(r, map[string]int{"alex": 3}, DefaultOwners(), generatedAt)
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected a pdf document, got %q", out[:min(len(out), 16)])
	}
}

func TestCSV(t *testing.T) {
	r := calculate(t, payout.Inputs{
		BonusesTotal:       decimal.NewFromInt(100),
		WorkerBonusesTotal: decimal.NewFromInt(40),
		Logs:               1000,
	})
	out, err := CSV(r, DefaultOwners())
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus four stakeholders, got %q", out)
	}
	if lines[0] != "stakeholder,components,total" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[2] != "Julian,21.00+20.00,41.00" {
		t.Fatalf("unexpected owner row %q", lines[2])
	}
}
