package session

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"dailypay/internal/domain/payout"
)

const noneToken = "none"

// ParsePenalties reads one "<worker> <amount>" entry per line. The worker may
// contain spaces; the last field is the amount. A lone "None" means no
// penalties. Blank lines are skipped.
func ParsePenalties(text string) ([]payout.Penalty, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, &InputError{State: StateAwaitingPenalties, Reason: "send penalties or None"}
	}
	if len(lines) == 1 && strings.EqualFold(lines[0], noneToken) {
		return []payout.Penalty{}, nil
	}

	penalties := make([]payout.Penalty, 0, len(lines))
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, &InputError{State: StateAwaitingPenalties, Line: i + 1, Reason: "expected \"<worker> <amount>\""}
		}
		rawAmount := fields[len(fields)-1]
		amount, err := decimal.NewFromString(strings.TrimPrefix(rawAmount, "$"))
		if err != nil {
			return nil, &InputError{State: StateAwaitingPenalties, Line: i + 1, Reason: "amount " + strconv.Quote(rawAmount) + " is not a number"}
		}
		if !amount.IsPositive() {
			return nil, &InputError{State: StateAwaitingPenalties, Line: i + 1, Reason: "amount must be greater than zero"}
		}
		penalties = append(penalties, payout.Penalty{
			Worker: strings.Join(fields[:len(fields)-1], " "),
			Amount: amount,
		})
	}
	return penalties, nil
}

func ParseCrossCheckerCount(text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	count, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, &InputError{State: StateAwaitingCrossCheckerCount, Reason: "send a whole number of cross-checker logs"}
	}
	if count < 0 {
		return 0, &InputError{State: StateAwaitingCrossCheckerCount, Reason: "cross-checker log count must not be negative"}
	}
	return count, nil
}
