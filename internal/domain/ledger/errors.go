package ledger

import "errors"

var (
	ErrAlreadyProcessed = errors.New("file already processed")
	ErrCorruptState     = errors.New("ledger state is corrupt")
)
