package mergerequest

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrCancelled    = errors.New("request cancelled")
	ErrTimedOut     = errors.New("request timed out")
	ErrUnknownState = errors.New("unknown state, expected (open, closed, merged, all)")
)

const (
	HintHomeView = "Unable to load recent merge requests automatically. " +
		"Select a specific project, or use filters (author, title, dates) to narrow the search."
	HintFiltered = "Try selecting a specific project, filtering by author, or narrowing the date range."
	HintProject  = "Try filtering by author or narrowing the date range."
)

// TimeoutError is returned when a single upstream call exceeds its budget.
// It matches ErrTimedOut with errors.Is.
type TimeoutError struct {
	Path    string
	Timeout time.Duration
	Hint    string
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("request to %s timed out after %s", e.Path, e.Timeout)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}

	return msg
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimedOut
}

// UpstreamError reports a failed exchange with the API. StatusCode is 0 when
// no response arrived.
type UpstreamError struct {
	Path       string
	StatusCode int
	Status     string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("gitlab API request to %s failed: %v", e.Path, e.Err)
	case e.Status == "":
		return fmt.Sprintf("gitlab API error on %s: %d", e.Path, e.StatusCode)
	}

	return fmt.Sprintf("gitlab API error on %s: %s", e.Path, e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func withHint(err error, hint string) error {
	var te *TimeoutError
	if !errors.As(err, &te) {
		return err
	}

	return &TimeoutError{
		Path:    te.Path,
		Timeout: te.Timeout,
		Hint:    hint,
	}
}
