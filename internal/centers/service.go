package centers

import (
	"context"
	"fmt"

	"github.com/centerpass/centerpass/internal/users"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service provides read access to the center directory
type Service struct {
	pool  *pgxpool.Pool
	roles *users.Directory
}

// NewService creates a new center directory service
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool, roles: users.NewDirectory(pool)}
}

// ListAll returns every center sorted by name, with the state name joined in.
// Restricted to superadmins; returns users.ErrForbidden otherwise.
func (s *Service) ListAll(ctx context.Context, callerID uuid.UUID) ([]Summary, error) {
	if err := s.roles.RequireSuperadmin(ctx, callerID); err != nil {
		return nil, err
	}

	query := `
		SELECT c.id, c.name, c.town, COALESCE(s.name, '') AS state_name
		FROM centers c
		LEFT JOIN states s ON s.id = c.state_id
		ORDER BY c.name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list centers: %w", err)
	}
	defer rows.Close()

	var centers []Summary
	for rows.Next() {
		var c Summary
		if err := rows.Scan(&c.ID, &c.Name, &c.Town, &c.StateName); err != nil {
			return nil, fmt.Errorf("failed to scan center: %w", err)
		}
		centers = append(centers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating centers: %w", err)
	}

	return centers, nil
}

// GetByIDs resolves the given center ids to summaries, preserving the order
// of ids and silently dropping any id that no longer resolves. A center that
// was deleted after an invitation referenced it is not an error.
func (s *Service) GetByIDs(ctx context.Context, ids []string) ([]Summary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT c.id, c.name, c.town, COALESCE(s.name, '') AS state_name
		FROM centers c
		LEFT JOIN states s ON s.id = c.state_id
		WHERE c.id = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve centers: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]Summary, len(ids))
	for rows.Next() {
		var c Summary
		if err := rows.Scan(&c.ID, &c.Name, &c.Town, &c.StateName); err != nil {
			return nil, fmt.Errorf("failed to scan center: %w", err)
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating centers: %w", err)
	}

	resolved := make([]Summary, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			resolved = append(resolved, c)
		}
	}

	return resolved, nil
}
