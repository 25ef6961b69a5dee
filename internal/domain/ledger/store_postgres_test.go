package ledger

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"dailypay/internal/platform/db"
)

func TestPostgresStoreCommitAndReset(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool, db.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := NewPostgresStore(pool)
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	fp := FingerprintOf([]byte("postgres day"))
	state, err := store.Commit(ctx, fp, []string{"Alex", "alex", "sam"})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if state.Warnings["alex"] != 1 || state.Warnings["sam"] != 1 {
		t.Fatalf("unexpected warnings: %v", state.Warnings)
	}
	if _, err := store.Commit(ctx, fp, []string{"alex"}); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	processed, err := store.HasProcessed(ctx, fp)
	if err != nil || !processed {
		t.Fatalf("expected processed fingerprint, got %v %v", processed, err)
	}

	if err := store.Save(ctx, NewState().Apply("abc", []string{"kim"})); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Has("abc") || loaded.Has(fp) || loaded.Warnings["kim"] != 1 {
		t.Fatalf("expected save to replace the state, got %+v", loaded)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
}
