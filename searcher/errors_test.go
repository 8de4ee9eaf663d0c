package searcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireViolation asserts that f panics with a *ContractViolation.
func requireViolation(t *testing.T, f func()) *ContractViolation {
	t.Helper()
	var err error
	func() {
		defer recoverViolation(&err)
		f()
	}()
	require.ErrorIs(t, err, ErrContractViolation, "Should raise a contract violation")

	var violation *ContractViolation
	require.True(t, errors.As(err, &violation))
	return violation
}

func TestRecoverViolation(t *testing.T) {
	t.Run("recovers a contract violation into an error", func(t *testing.T) {
		violation := requireViolation(t, func() {
			violate("get edge", "edge %v not found at node %d", 3, 0)
		})
		require.Equal(t, "get edge", violation.Op)
		require.Equal(t, "contract violation: get edge: edge 3 not found at node 0", violation.Error())
	})

	t.Run("re-panics with anything else", func(t *testing.T) {
		require.PanicsWithValue(t, "boom", func() {
			var err error
			defer recoverViolation(&err)
			panic("boom")
		})
	})

	t.Run("leaves err untouched without a panic", func(t *testing.T) {
		var err error
		func() {
			defer recoverViolation(&err)
		}()
		require.NoError(t, err)
	})
}
