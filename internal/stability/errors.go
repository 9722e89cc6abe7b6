package stability

import (
	"errors"
	"fmt"
)

// ErrInvalidTimestamp marks observations whose timestamp could not be parsed.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ValidationError reports the first observation of a batch that cannot be
// assigned to a local date. Index is -1 outside a batch.
type ValidationError struct {
	Index     int
	StationID int
	Raw       string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("station %d: %v %q", e.StationID, ErrInvalidTimestamp, e.Raw)
	}
	return fmt.Sprintf("observation %d (station %d): %v %q", e.Index, e.StationID, ErrInvalidTimestamp, e.Raw)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidTimestamp
}
