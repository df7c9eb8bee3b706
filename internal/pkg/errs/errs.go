package errs

import (
	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches markErr as an identity so callers can match with Is
// while keeping the original cause and stack.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Is matches sentinel identity. Marks attached with Mark sit outside the
// Unwrap chain, so matching must go through the cockroachdb walker; the
// stdlib errors.Is never sees them.
func Is(err, target error) bool {
	return cr.Is(err, target)
}
