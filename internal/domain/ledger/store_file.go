package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 25 * time.Millisecond

// FileStore keeps the whole ledger in one JSON document. Every mutation is a
// full load-mutate-save cycle ending in an atomic rename, held under an
// advisory lock on path+".lock" so the server and payoutctl never interleave.
type FileStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

type fileState struct {
	ProcessedFingerprints []string       `json:"processedFingerprints"`
	Warnings              map[string]int `json:"warnings"`

	// Layout written by the first version of the bot.
	LegacyHashes   []string       `json:"hashes,omitempty"`
	LegacyWarnings map[string]int `json:"warn,omitempty"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, lock: flock.New(path + ".lock")}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Save(ctx context.Context, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockFile(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return s.save(state)
}

func (s *FileStore) HasProcessed(ctx context.Context, fp Fingerprint) (bool, error) {
	state, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	return state.Has(fp), nil
}

func (s *FileStore) Commit(ctx context.Context, fp Fingerprint, workers []string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockFile(ctx)
	if err != nil {
		return State{}, err
	}
	defer unlock()

	state, err := s.load()
	if err != nil {
		return State{}, err
	}
	if state.Has(fp) {
		return State{}, ErrAlreadyProcessed
	}
	next := state.Apply(fp, workers)
	if err := s.save(next); err != nil {
		return State{}, err
	}
	return next, nil
}

func (s *FileStore) Reset(ctx context.Context) error {
	return s.Save(ctx, NewState())
}

// lockFile takes the cross-process lock, waiting until ctx is done.
func (s *FileStore) lockFile(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("locking ledger %s: %w", s.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("locking ledger %s: %w", s.path, ctx.Err())
	}
	return func() { _ = s.lock.Unlock() }, nil
}

func (s *FileStore) load() (State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}

	var raw fileState
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, fmt.Errorf("%w: parsing %s: %v", ErrCorruptState, s.path, err)
	}

	hashes := raw.ProcessedFingerprints
	warnings := raw.Warnings
	if hashes == nil && warnings == nil {
		hashes = raw.LegacyHashes
		warnings = raw.LegacyWarnings
	}

	state := NewState()
	for _, hash := range hashes {
		if hash == "" {
			return State{}, fmt.Errorf("%w: empty fingerprint in %s", ErrCorruptState, s.path)
		}
		state.Fingerprints[Fingerprint(hash)] = struct{}{}
	}
	for worker, count := range warnings {
		if count < 0 {
			return State{}, fmt.Errorf("%w: negative warning count for %q in %s", ErrCorruptState, worker, s.path)
		}
		state.Warnings[NormalizeWorker(worker)] += count
	}
	return state, nil
}

func (s *FileStore) save(state State) error {
	raw := fileState{
		ProcessedFingerprints: state.SortedFingerprints(),
		Warnings:              map[string]int{},
	}
	for worker, count := range state.Warnings {
		raw.Warnings[worker] = count
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic writes to a sibling temporary file, syncs it and renames it
// over path, so readers see either the old or the new document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary ledger file: %w", err)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary ledger file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary ledger file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary ledger file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming ledger file into place: %w", err)
	}

	if parent, err := os.Open(dir); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}
