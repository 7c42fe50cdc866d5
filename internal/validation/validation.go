package validation

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MinExpiryDays is the minimum invitation lifetime
	MinExpiryDays = 1

	// MaxExpiryDays is the maximum invitation lifetime
	MaxExpiryDays = 30

	// DefaultExpiryDays is used when the issuer does not specify a lifetime
	DefaultExpiryDays = 7

	// MaxCenterIDLength bounds a single center identifier
	MaxCenterIDLength = 128

	// MaxCenterIDs bounds the number of centers on one invitation
	MaxCenterIDs = 100
)

// ErrInvalidInput is the base error wrapped by every specific validation
// failure, so callers can classify with a single errors.Is check.
var ErrInvalidInput = errors.New("invalid input")

var (
	// ErrNoCenterIDs is returned when the center list is empty
	ErrNoCenterIDs = fmt.Errorf("%w: at least one center id is required", ErrInvalidInput)

	// ErrTooManyCenterIDs is returned when the center list is too long
	ErrTooManyCenterIDs = fmt.Errorf("%w: at most %d center ids are allowed", ErrInvalidInput, MaxCenterIDs)

	// ErrBlankCenterID is returned when a center id is empty or whitespace
	ErrBlankCenterID = fmt.Errorf("%w: center ids must not be blank", ErrInvalidInput)

	// ErrCenterIDTooLong is returned when a center id exceeds the length bound
	ErrCenterIDTooLong = fmt.Errorf("%w: center ids must be at most %d characters", ErrInvalidInput, MaxCenterIDLength)

	// ErrDuplicateCenterID is returned when the same center id is listed twice
	ErrDuplicateCenterID = fmt.Errorf("%w: center ids must not repeat", ErrInvalidInput)

	// ErrExpiryDaysOutOfRange is returned when the lifetime is outside [1, 30]
	ErrExpiryDaysOutOfRange = fmt.Errorf("%w: expiry must be between %d and %d days", ErrInvalidInput, MinExpiryDays, MaxExpiryDays)
)

// ValidateCenterIDs checks an invitation's center id list:
// non-empty, bounded, no blank or oversized ids, no duplicates.
func ValidateCenterIDs(ids []string) error {
	if len(ids) == 0 {
		return ErrNoCenterIDs
	}
	if len(ids) > MaxCenterIDs {
		return ErrTooManyCenterIDs
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ErrBlankCenterID
		}
		if len(id) > MaxCenterIDLength {
			return ErrCenterIDTooLong
		}
		if seen[id] {
			return ErrDuplicateCenterID
		}
		seen[id] = true
	}

	return nil
}

// ValidateExpiryDays checks an invitation lifetime in days
func ValidateExpiryDays(days int) error {
	if days < MinExpiryDays || days > MaxExpiryDays {
		return ErrExpiryDaysOutOfRange
	}
	return nil
}
