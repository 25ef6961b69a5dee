package session

import (
	"time"

	"github.com/shopspring/decimal"

	"dailypay/internal/domain/ledger"
	"dailypay/internal/domain/payout"
	"dailypay/internal/domain/tabulation"
)

type State string

const (
	StateIdle                      State = "idle"
	StateAwaitingPenalties         State = "awaiting_penalties"
	StateAwaitingCrossCheckerCount State = "awaiting_cross_checker_count"
	StateFinalized                 State = "finalized"
	StateCancelled                 State = "cancelled"
)

const (
	PromptPenalties    = "File accepted. Send penalties, one per line as \"<worker> <amount>\", or None."
	PromptCrossChecker = "Send the cross-checker log count (0 if none)."
	MessageCancelled   = "Session cancelled. Nothing was recorded."
)

type Session struct {
	ID               string                `json:"id"`
	OperatorID       string                `json:"operatorId"`
	Fingerprint      ledger.Fingerprint    `json:"fingerprint"`
	Rows             []tabulation.WorkRow  `json:"-"`
	Aggregates       tabulation.Aggregates `json:"aggregates"`
	Penalties        []payout.Penalty      `json:"penalties"`
	PenaltyTotal     decimal.Decimal       `json:"penaltyTotal"`
	CrossCheckerLogs int64                 `json:"crossCheckerLogs"`
	State            State                 `json:"state"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// Outcome is what a finalized session hands back to the transport.
type Outcome struct {
	Text        string             `json:"text"`
	Report      payout.Report      `json:"report"`
	Warnings    ledger.Warnings    `json:"warnings"`
	Fingerprint ledger.Fingerprint `json:"fingerprint"`
	PDF         []byte             `json:"pdf,omitempty"`
	CSV         []byte             `json:"csv,omitempty"`
}

type Reply struct {
	State   State    `json:"state"`
	Message string   `json:"message"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

func (s *Session) clone() Session {
	out := *s
	out.Rows = append([]tabulation.WorkRow(nil), s.Rows...)
	out.Penalties = append([]payout.Penalty(nil), s.Penalties...)
	return out
}
