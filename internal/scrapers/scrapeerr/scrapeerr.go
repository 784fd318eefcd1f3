// Package scrapeerr holds the two severities an extractor can fail with.
//
// ErrSkipRow is recoverable: the current unit of work (an index row, a
// linked page) is dropped and the extractor carries on with the next one.
// AbortError is not: the page no longer has the structure the extractor
// depends on and the whole invocation stops.
package scrapeerr

import (
	"errors"
	"fmt"
)

var ErrSkipRow = errors.New("row skipped")

// SkipRow wraps `err` so that it matches ErrSkipRow.
func SkipRow(reason error) error {
	return fmt.Errorf("%w: %w", ErrSkipRow, reason)
}

type AbortError struct {
	// Extractor is the mode that was aborted.
	Extractor string
	Err       error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("%s: aborted: %s", e.Extractor, e.Err.Error())
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Abort wraps `err` as an invocation-level failure of `extractor`.
func Abort(extractor string, err error) error {
	if err == nil {
		return nil
	}
	return &AbortError{Extractor: extractor, Err: err}
}

func IsAbort(err error) bool {
	var abort *AbortError
	return errors.As(err, &abort)
}

func IsSkipRow(err error) bool {
	return errors.Is(err, ErrSkipRow)
}
