package cfr

import (
	"fmt"
)

// ConfigurationError is returned when training parameters are invalid.
// A run is never started with an invalid configuration.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// MalformedHistoryError is returned by a Game when a history has no
// defined legal successors. It always indicates a bug in the game rules
// or in the walker, and aborts the run.
type MalformedHistoryError struct {
	History History
}

// NewMalformedHistoryError returns an error for the given history.
func NewMalformedHistoryError(h History) *MalformedHistoryError {
	return &MalformedHistoryError{History: h}
}

func (e *MalformedHistoryError) Error() string {
	return fmt.Sprintf("malformed history %q: no legal successor defined", string(e.History))
}

// ArityMismatchError is returned when an info set key resolves to an
// entry whose width differs from the legal action count computed for it.
// It means two distinguishable decision points were given the same key.
type ArityMismatchError struct {
	Key  string
	Have int
	Want int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("info set %q has n_actions=%d but node has n_actions=%d",
		e.Key, e.Have, e.Want)
}
