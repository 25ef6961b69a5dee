package ledger

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// FiredThreshold is the warning count at which a worker is reported as fired.
const FiredThreshold = 3

type Fingerprint string

func FingerprintOf(data []byte) Fingerprint {
	sum := sha256.Sum256(data)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// LegacyFingerprintOf is the MD5 content hash recorded in "hashes" by the
// first version of the bot. It is only ever compared, never written.
func LegacyFingerprintOf(data []byte) Fingerprint {
	sum := md5.Sum(data)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// FingerprintsOf lists every fingerprint data may have been recorded under,
// current first.
func FingerprintsOf(data []byte) []Fingerprint {
	return []Fingerprint{FingerprintOf(data), LegacyFingerprintOf(data)}
}

type Warnings map[string]int

type State struct {
	Fingerprints map[Fingerprint]struct{}
	Warnings     Warnings
}

func NewState() State {
	return State{Fingerprints: map[Fingerprint]struct{}{}, Warnings: Warnings{}}
}

func (s State) Has(fp Fingerprint) bool {
	_, ok := s.Fingerprints[fp]
	return ok
}

// HasContent reports whether data was recorded under any of its fingerprints.
func (s State) HasContent(data []byte) bool {
	for _, fp := range FingerprintsOf(data) {
		if s.Has(fp) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate without touching s.
func (s State) Clone() State {
	out := NewState()
	for fp := range s.Fingerprints {
		out.Fingerprints[fp] = struct{}{}
	}
	for worker, count := range s.Warnings {
		out.Warnings[worker] = count
	}
	return out
}

// Apply records fp and adds one warning per distinct worker. The receiver is
// not modified.
func (s State) Apply(fp Fingerprint, workers []string) State {
	out := s.Clone()
	out.Fingerprints[fp] = struct{}{}
	out.Warnings = out.Warnings.With(workers)
	return out
}

func (s State) SortedFingerprints() []string {
	out := make([]string, 0, len(s.Fingerprints))
	for fp := range s.Fingerprints {
		out = append(out, string(fp))
	}
	sort.Strings(out)
	return out
}

// With returns a copy of w with each distinct worker incremented by exactly one.
func (w Warnings) With(workers []string) Warnings {
	out := Warnings{}
	for worker, count := range w {
		out[worker] = count
	}
	for _, worker := range DistinctWorkers(workers) {
		out[worker]++
	}
	return out
}

func (w Warnings) Fired(worker string) bool {
	return w[NormalizeWorker(worker)] >= FiredThreshold
}

func NormalizeWorker(worker string) string {
	return strings.ToLower(strings.TrimSpace(worker))
}

func DistinctWorkers(workers []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(workers))
	for _, worker := range workers {
		key := NormalizeWorker(worker)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
