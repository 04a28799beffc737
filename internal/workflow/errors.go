package workflow

import "errors"

// ErrSuperseded reports that a newer upload replaced this one while its
// request was in flight; the result was discarded.
var ErrSuperseded = errors.New("upload superseded by a newer one")

// ValidationError is a local precondition failure: no request was issued and
// no state changed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsValidation reports whether err is a local validation failure rather than
// a transport or server error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
