package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps fingerprints and warning counters in two tables. Each
// mutation runs in a single transaction.
type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Load(ctx context.Context) (State, error) {
	state := NewState()

	rows, err := s.DB.Query(ctx, "SELECT fingerprint FROM processed_fingerprints")
	if err != nil {
		return State{}, fmt.Errorf("loading fingerprints: %w", err)
	}
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			rows.Close()
			return State{}, fmt.Errorf("%w: scanning fingerprint: %v", ErrCorruptState, err)
		}
		state.Fingerprints[Fingerprint(fp)] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("loading fingerprints: %w", err)
	}

	rows, err = s.DB.Query(ctx, "SELECT worker, count FROM worker_warnings WHERE count > 0")
	if err != nil {
		return State{}, fmt.Errorf("loading warnings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var worker string
		var count int
		if err := rows.Scan(&worker, &count); err != nil {
			return State{}, fmt.Errorf("%w: scanning warning: %v", ErrCorruptState, err)
		}
		state.Warnings[worker] = count
	}
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("loading warnings: %w", err)
	}
	return state, nil
}

func (s *PostgresStore) Save(ctx context.Context, state State) error {
	return pgx.BeginTxFunc(ctx, s.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if err := truncate(ctx, tx); err != nil {
			return err
		}
		for _, fp := range state.SortedFingerprints() {
			if _, err := tx.Exec(ctx, "INSERT INTO processed_fingerprints (fingerprint) VALUES ($1)", fp); err != nil {
				return fmt.Errorf("saving fingerprint: %w", err)
			}
		}
		for worker, count := range state.Warnings {
			if _, err := tx.Exec(ctx, "INSERT INTO worker_warnings (worker, count) VALUES ($1, $2)", worker, count); err != nil {
				return fmt.Errorf("saving warning: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) HasProcessed(ctx context.Context, fp Fingerprint) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM processed_fingerprints WHERE fingerprint = $1", string(fp)).Scan(&count); err != nil {
		return false, fmt.Errorf("checking fingerprint: %w", err)
	}
	return count > 0, nil
}

func (s *PostgresStore) Commit(ctx context.Context, fp Fingerprint, workers []string) (State, error) {
	err := pgx.BeginTxFunc(ctx, s.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
    INSERT INTO processed_fingerprints (fingerprint)
    VALUES ($1)
    ON CONFLICT (fingerprint) DO NOTHING
  `, string(fp))
		if err != nil {
			return fmt.Errorf("recording fingerprint: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyProcessed
		}
		for _, worker := range DistinctWorkers(workers) {
			if _, err := tx.Exec(ctx, `
      INSERT INTO worker_warnings (worker, count)
      VALUES ($1, 1)
      ON CONFLICT (worker) DO UPDATE SET count = worker_warnings.count + 1, updated_at = now()
    `, worker); err != nil {
				return fmt.Errorf("incrementing warning for %s: %w", worker, err)
			}
		}
		return nil
	})
	if err != nil {
		return State{}, err
	}
	return s.Load(ctx)
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	return pgx.BeginTxFunc(ctx, s.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return truncate(ctx, tx)
	})
}

func truncate(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, "DELETE FROM processed_fingerprints"); err != nil {
		return fmt.Errorf("clearing fingerprints: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM worker_warnings"); err != nil {
		return fmt.Errorf("clearing warnings: %w", err)
	}
	return nil
}
