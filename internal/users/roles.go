package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrForbidden is returned when a caller's role does not permit an operation
var ErrForbidden = errors.New("insufficient role")

// Role represents a user's role in the system
type Role string

const (
	// RolePIC is the default role: a person-in-charge of the centers
	// they have been granted access to
	RolePIC Role = "pic"

	// RoleSuperadmin can create invitations and view all centers
	RoleSuperadmin Role = "superadmin"
)

// IsValid returns true for a recognized role value
func (r Role) IsValid() bool {
	return r == RolePIC || r == RoleSuperadmin
}

// CanManageInvitations returns true if the role may create invitations
// and list the full center directory
func (r Role) CanManageInvitations() bool {
	return r == RoleSuperadmin
}

// Directory resolves caller identities to roles
type Directory struct {
	pool *pgxpool.Pool
}

// NewDirectory creates a new role directory
func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// RoleOf resolves a user id to its role with a single lookup.
// A missing user record resolves to the least-privileged role rather than
// an error, so an unknown identity can never pass a privilege check.
func (d *Directory) RoleOf(ctx context.Context, userID uuid.UUID) (Role, error) {
	var role Role

	query := `SELECT role FROM users WHERE id = $1`

	err := d.pool.QueryRow(ctx, query, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RolePIC, nil
		}
		return "", fmt.Errorf("failed to look up user role: %w", err)
	}

	if !role.IsValid() {
		return RolePIC, nil
	}

	return role, nil
}

// RequireSuperadmin resolves the caller's role and returns ErrForbidden
// unless it permits invitation management
func (d *Directory) RequireSuperadmin(ctx context.Context, userID uuid.UUID) error {
	role, err := d.RoleOf(ctx, userID)
	if err != nil {
		return err
	}
	if !role.CanManageInvitations() {
		return ErrForbidden
	}
	return nil
}
