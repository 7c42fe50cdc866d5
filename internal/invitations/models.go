package invitations

import (
	"errors"
	"time"

	"github.com/centerpass/centerpass/internal/centers"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no invitation matches the token
	ErrNotFound = errors.New("invitation not found")

	// ErrAlreadyUsed is returned when the invitation was previously redeemed
	ErrAlreadyUsed = errors.New("invitation already used")

	// ErrExpired is returned when the invitation is past its expiry
	ErrExpired = errors.New("invitation expired")
)

// Invitation is a single-use, time-limited credential granting its redeemer
// access to a fixed set of centers. The token is the capability handed to
// the invitee out of band; the row id is internal.
type Invitation struct {
	ID        uuid.UUID     `db:"id"`
	Token     string        `db:"token"`
	CenterIDs []string      `db:"center_ids"`
	ExpiresAt time.Time     `db:"expires_at"`
	Used      bool          `db:"used"`
	UsedBy    uuid.NullUUID `db:"used_by"`
	CreatedBy uuid.UUID     `db:"created_by"`
	CreatedAt time.Time     `db:"created_at"`
}

// checkRedeemable applies the state checks shared by inspection and
// redemption, in fixed order: used before expired, so the caller always
// sees the most specific reason. Expiry is derived at read time, never
// stored.
func (inv *Invitation) checkRedeemable(now time.Time) error {
	if inv.Used {
		return ErrAlreadyUsed
	}
	if !now.Before(inv.ExpiresAt) {
		return ErrExpired
	}
	return nil
}

// Details is the shape returned to an invitation holder on inspection:
// the token itself, its expiry, and the centers it would grant, resolved
// to display summaries.
type Details struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Centers   []centers.Summary `json:"centers"`
}
