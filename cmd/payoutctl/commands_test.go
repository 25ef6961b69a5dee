package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dailypay/internal/domain/ledger"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatusAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := ledger.NewFileStore(path)
	if _, err := store.Commit(context.Background(), ledger.FingerprintOf([]byte("day")), []string{"sam", "Sam", "lee"}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	out, err := run(t, "", "status", "--backend", "file", "--ledger", path)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Processed files: 1", "lee 1/3 warning", "sam 1/3 warning"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "", "reset", "--backend", "file", "--ledger", path); err == nil {
		t.Fatal("expected reset without --yes to fail")
	}
	if _, err := run(t, "", "reset", "--yes", "--backend", "file", "--ledger", path); err != nil {
		t.Fatalf("reset: %v", err)
	}
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(state.Fingerprints) != 0 || len(state.Warnings) != 0 {
		t.Fatalf("expected empty ledger, got %+v", state)
	}
}

func TestPreviewDoesNotCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	file := filepath.Join(dir, "day.csv")
	if err := os.WriteFile(file, []byte("Role,Bonus,LogCount\nworker,20,500\nworker,20,500\nlead,60,0\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := run(t, "", "preview", file, "--penalties", "sam 5;lee 2.50", "--cross", "10", "--backend", "file", "--ledger", path)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	for _, want := range []string{"sam -$5.00", "lee -$2.50", "sam 1/3 warning"} {
		if !strings.Contains(out, want) {
			t.Fatalf("preview output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("preview must not write the ledger, stat err=%v", err)
	}
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hunter22\n", "hash-password")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "$2") {
		t.Fatalf("expected bcrypt hash, got %q", out)
	}
}
