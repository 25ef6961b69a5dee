package ledger

import "context"

type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
	HasProcessed(ctx context.Context, fp Fingerprint) (bool, error)
	Commit(ctx context.Context, fp Fingerprint, workers []string) (State, error)
	Reset(ctx context.Context) error
}

// ContentProcessed checks data against the store under its current and legacy
// fingerprints.
func ContentProcessed(ctx context.Context, store Store, data []byte) (bool, error) {
	for _, fp := range FingerprintsOf(data) {
		processed, err := store.HasProcessed(ctx, fp)
		if err != nil {
			return false, err
		}
		if processed {
			return true, nil
		}
	}
	return false, nil
}
