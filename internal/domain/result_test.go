package domain

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestFailure(t *testing.T) {
	t.Parallel()

	l := zerolog.Nop()

	got := Failure(&l, ErrInvalidCategory, "fallback")
	require.Equal(t, Result{Status: StatusError, Message: "Invalid category value."}, got)
	require.False(t, got.OK())

	got = Failure(&l, errors.New("pq: connection refused"), "fallback")
	require.Equal(t, Result{Status: StatusError, Message: "fallback"}, got)

	got = Success("done", 4, 5)
	require.True(t, got.OK())
	require.Equal(t, []int64{4, 5}, got.IDs)
}
