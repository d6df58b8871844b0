package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcomes(t *testing.T) {
	errTimeout := errors.New("timeout")
	outcomes := Outcomes{
		{URL: "https://a", Succeeded: true, Result: "0x01"},
		{URL: "https://b", Err: errTimeout},
		{URL: "https://c", Succeeded: true},
	}

	require.True(t, outcomes.AnySucceeded())
	require.Len(t, outcomes.Succeeded(), 2)
	require.Len(t, outcomes.Failed(), 1)
	require.ErrorIs(t, outcomes.Err(), errTimeout)
	require.Contains(t, outcomes.Err().Error(), "https://b")

	require.False(t, Outcomes{}.AnySucceeded())
	require.NoError(t, outcomes.Succeeded().Err())
}
