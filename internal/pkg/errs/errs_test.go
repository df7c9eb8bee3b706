//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"storefront-engine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMarkIdentity(t *testing.T) {
	sentinel := errs.New("gateway unavailable")
	cause := errs.New("connection refused")
	marked := errs.Mark(cause, sentinel)

	assert.True(t, errs.Is(marked, sentinel), "mark identity matches through errs.Is")
	assert.True(t, errs.Is(marked, cause), "cause stays matchable")
	assert.False(t, errors.Is(marked, sentinel), "stdlib walker does not see marks")
}

func TestMarkNilCause(t *testing.T) {
	sentinel := errs.New("sentinel")
	assert.Same(t, sentinel, errs.Mark(nil, sentinel))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errs.New("row missing")
	wrapped := errs.Wrap(cause, "loading shopper")

	assert.True(t, errs.Is(wrapped, cause))
	assert.Nil(t, errs.Wrap(nil, "no-op"))
}
