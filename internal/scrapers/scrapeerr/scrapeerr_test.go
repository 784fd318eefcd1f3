package scrapeerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeverities(t *testing.T) {
	cause := errors.New("tag \"tbody\" with attrs {} not found")

	abort := Abort("pep", cause)
	require.True(t, IsAbort(abort))
	require.False(t, IsSkipRow(abort))
	require.ErrorIs(t, abort, cause)
	require.Equal(t, `pep: aborted: tag "tbody" with attrs {} not found`, abort.Error())

	wrapped := fmt.Errorf("run: %w", abort)
	require.True(t, IsAbort(wrapped))

	skip := SkipRow(cause)
	require.True(t, IsSkipRow(skip))
	require.False(t, IsAbort(skip))
	require.ErrorIs(t, skip, cause)

	require.Nil(t, Abort("pep", nil))
}
