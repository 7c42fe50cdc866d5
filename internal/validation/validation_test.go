package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCenterIDs(t *testing.T) {
	require.NoError(t, ValidateCenterIDs([]string{"c1"}))
	require.NoError(t, ValidateCenterIDs([]string{"c1", "c2", "c3"}))

	require.ErrorIs(t, ValidateCenterIDs(nil), ErrNoCenterIDs)
	require.ErrorIs(t, ValidateCenterIDs([]string{}), ErrNoCenterIDs)
	require.ErrorIs(t, ValidateCenterIDs([]string{"c1", "  "}), ErrBlankCenterID)
	require.ErrorIs(t, ValidateCenterIDs([]string{"c1", "c2", "c1"}), ErrDuplicateCenterID)
	require.ErrorIs(t, ValidateCenterIDs([]string{strings.Repeat("x", MaxCenterIDLength+1)}), ErrCenterIDTooLong)

	many := make([]string, MaxCenterIDs+1)
	for i := range many {
		many[i] = fmt.Sprintf("c%d", i)
	}
	require.ErrorIs(t, ValidateCenterIDs(many), ErrTooManyCenterIDs)
}

func TestValidateExpiryDays(t *testing.T) {
	require.NoError(t, ValidateExpiryDays(MinExpiryDays))
	require.NoError(t, ValidateExpiryDays(DefaultExpiryDays))
	require.NoError(t, ValidateExpiryDays(MaxExpiryDays))

	require.ErrorIs(t, ValidateExpiryDays(0), ErrExpiryDaysOutOfRange)
	require.ErrorIs(t, ValidateExpiryDays(-1), ErrExpiryDaysOutOfRange)
	require.ErrorIs(t, ValidateExpiryDays(31), ErrExpiryDaysOutOfRange)
}

func TestValidationErrors_WrapInvalidInput(t *testing.T) {
	require.ErrorIs(t, ValidateCenterIDs(nil), ErrInvalidInput)
	require.ErrorIs(t, ValidateExpiryDays(99), ErrInvalidInput)
}
