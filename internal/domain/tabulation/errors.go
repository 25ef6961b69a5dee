package tabulation

import (
	"errors"
	"fmt"
)

var ErrEmptyFile = errors.New("file has no rows")

// FormatError names the column that could not be resolved or parsed. Row is
// 1-based and counts the header; zero means the problem is with the header.
type FormatError struct {
	Field  string
	Row    int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field == FieldFile {
		if e.Row > 0 {
			return fmt.Sprintf("file, line %d: %s", e.Row, e.Reason)
		}
		return "file: " + e.Reason
	}
	if e.Row > 0 {
		return fmt.Sprintf("column %s, row %d: %s", e.Field, e.Row, e.Reason)
	}
	return fmt.Sprintf("column %s: %s", e.Field, e.Reason)
}

func fileError(format string, args ...any) *FormatError {
	return &FormatError{Field: FieldFile, Reason: fmt.Sprintf(format, args...)}
}
