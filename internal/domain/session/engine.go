package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dailypay/internal/domain/ledger"
	"dailypay/internal/domain/payout"
	"dailypay/internal/domain/report"
	"dailypay/internal/domain/tabulation"
	"dailypay/internal/platform/metrics"
)

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithMetrics(collector *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = collector
	}
}

func WithOwners(owners report.Owners) Option {
	return func(e *Engine) {
		e.owners = owners
	}
}

// WithExports attaches PDF and CSV renderings to finalized outcomes.
func WithExports(enabled bool) Option {
	return func(e *Engine) {
		e.exports = enabled
	}
}

// Engine drives one conversation per operator from upload to committed
// report. Calls are serialised.
type Engine struct {
	mu       sync.Mutex
	ledger   ledger.Store
	sessions map[string]*Session

	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Collector
	owners  report.Owners
	exports bool
}

func NewEngine(store ledger.Store, opts ...Option) *Engine {
	e := &Engine{
		ledger:   store,
		sessions: map[string]*Session{},
		now:      time.Now,
		logger:   slog.Default(),
		owners:   report.DefaultOwners(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Ledger() ledger.Store {
	return e.ledger
}

func (e *Engine) Current(operatorID string) (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[operatorID]
	if !ok {
		return Session{}, false
	}
	return s.clone(), true
}

func (e *Engine) Upload(ctx context.Context, operatorID string, data []byte) (Reply, error) {
	if strings.TrimSpace(operatorID) == "" {
		return Reply{}, ErrOperator
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics.Count(metrics.EventUpload)

	if existing, ok := e.sessions[operatorID]; ok {
		e.metrics.Count(metrics.EventRejected)
		return Reply{State: existing.State}, ErrSessionActive
	}

	fp := ledger.FingerprintOf(data)
	processed, err := ledger.ContentProcessed(ctx, e.ledger, data)
	if err != nil {
		e.logger.Error("ledger check failed", "operator", operatorID, "fingerprint", fp, "err", err)
		return Reply{State: StateIdle}, fmt.Errorf("checking ledger: %w", err)
	}
	if processed {
		e.metrics.Count(metrics.EventDuplicate)
		e.logger.Info("duplicate upload rejected", "operator", operatorID, "fingerprint", fp)
		return Reply{State: StateIdle}, ledger.ErrAlreadyProcessed
	}

	rows, err := tabulation.Parse(data)
	if err != nil {
		e.metrics.Count(metrics.EventRejected)
		return Reply{State: StateIdle}, err
	}
	agg := tabulation.Aggregate(rows)
	// A file the calculator would reject must not open a session that can
	// never finalize.
	if _, err := CalculateFor(agg, nil, 0); err != nil {
		e.metrics.Count(metrics.EventRejected)
		return Reply{State: StateIdle}, err
	}

	s := &Session{
		ID:           uuid.NewString(),
		OperatorID:   operatorID,
		Fingerprint:  fp,
		Rows:         rows,
		Aggregates:   agg,
		PenaltyTotal: decimal.Zero,
		State:        StateAwaitingPenalties,
		CreatedAt:    e.now(),
	}
	e.sessions[operatorID] = s
	e.logger.Info("session opened",
		"operator", operatorID,
		"session", s.ID,
		"fingerprint", fp,
		"rows", s.Aggregates.RowCount,
		"logs", s.Aggregates.Logs,
	)
	return Reply{State: s.State, Message: PromptPenalties}, nil
}

func (e *Engine) Text(ctx context.Context, operatorID, text string) (Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[operatorID]
	if !ok {
		return Reply{State: StateIdle}, ErrNoSession
	}

	switch s.State {
	case StateAwaitingPenalties:
		penalties, err := ParsePenalties(text)
		if err != nil {
			return Reply{State: s.State, Message: PromptPenalties}, err
		}
		s.Penalties = penalties
		s.PenaltyTotal = payout.SumPenalties(penalties)
		s.State = StateAwaitingCrossCheckerCount
		e.logger.Info("penalties recorded", "session", s.ID, "lines", len(penalties), "total", s.PenaltyTotal.StringFixed(2))
		return Reply{State: s.State, Message: PromptCrossChecker}, nil

	case StateAwaitingCrossCheckerCount:
		count, err := ParseCrossCheckerCount(text)
		if err != nil {
			return Reply{State: s.State, Message: PromptCrossChecker}, err
		}
		outcome, err := e.finalize(ctx, s, count)
		if err != nil {
			return Reply{State: s.State}, err
		}
		delete(e.sessions, operatorID)
		e.metrics.Count(metrics.EventFinalized)
		e.logger.Info("session finalized", "session", s.ID, "fingerprint", s.Fingerprint, "warned", len(ledger.DistinctWorkers(workersOf(s.Penalties))))
		return Reply{State: StateFinalized, Message: outcome.Text, Outcome: outcome}, nil
	}

	return Reply{State: s.State}, fmt.Errorf("session %s in unexpected state %s", s.ID, s.State)
}

func (e *Engine) Cancel(ctx context.Context, operatorID string) (Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[operatorID]
	if !ok {
		return Reply{State: StateIdle}, ErrNoSession
	}
	delete(e.sessions, operatorID)
	e.metrics.Count(metrics.EventCancelled)
	e.logger.Info("session cancelled", "operator", operatorID, "session", s.ID, "state", s.State)
	return Reply{State: StateCancelled, Message: MessageCancelled}, nil
}

// finalize builds the report and commits the ledger. It does not touch s, so
// a failure leaves the session ready for another attempt.
func (e *Engine) finalize(ctx context.Context, s *Session, crossCheckerLogs int64) (*Outcome, error) {
	result, err := CalculateFor(s.Aggregates, s.Penalties, crossCheckerLogs)
	if err != nil {
		return nil, err
	}

	current, err := e.ledger.Load(ctx)
	if err != nil {
		e.logger.Error("ledger load failed", "session", s.ID, "err", err)
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	workers := workersOf(s.Penalties)
	projected := current.Warnings.With(workers)

	now := e.now()
	outcome := &Outcome{
		Text:        report.Render(result, projected, e.owners, now),
		Report:      result,
		Fingerprint: s.Fingerprint,
	}
	if e.exports {
		if outcome.PDF, err = report.PDF(result, projected, e.owners, now); err != nil {
			return nil, err
		}
		if outcome.CSV, err = report.CSV(result, e.owners); err != nil {
			return nil, err
		}
	}

	committed, err := e.ledger.Commit(ctx, s.Fingerprint, workers)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyProcessed) {
			e.metrics.Count(metrics.EventDuplicate)
		}
		e.logger.Error("ledger commit failed", "session", s.ID, "fingerprint", s.Fingerprint, "err", err)
		return nil, fmt.Errorf("committing ledger: %w", err)
	}
	outcome.Warnings = committed.Warnings
	return outcome, nil
}

// CalculateFor runs the calculator over a session's collected facts.
func CalculateFor(agg tabulation.Aggregates, penalties []payout.Penalty, crossCheckerLogs int64) (payout.Report, error) {
	return payout.Calculate(payout.Inputs{
		BonusesTotal:       agg.BonusesTotal,
		WorkerBonusesTotal: agg.WorkerBonusesTotal,
		Logs:               agg.Logs,
		CrossCheckerLogs:   crossCheckerLogs,
		PenaltyTotal:       payout.SumPenalties(penalties),
		Penalties:          penalties,
	})
}

func workersOf(penalties []payout.Penalty) []string {
	workers := make([]string, len(penalties))
	for i, penalty := range penalties {
		workers[i] = penalty.Worker
	}
	return workers
}
