// Package grants records durable user-to-center access edges. Grant rows are
// created only as a side effect of invitation redemption and are never
// mutated afterwards.
package grants

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Writer applies access grants resulting from invitation redemption
type Writer struct {
	pool *pgxpool.Pool
}

// NewWriter creates a new grant writer
func NewWriter(pool *pgxpool.Pool) *Writer {
	return &Writer{pool: pool}
}

// ApplyAll inserts one access grant per center id for the given user,
// inside the caller's transaction so the grants commit or roll back together
// with the invitation claim. A center id that no longer resolves is skipped
// without error, mirroring how invitation inspection treats deleted centers.
// Returns the number of grants actually written.
//
// Duplicate (user, center) pairs across invitations are permitted; there is
// deliberately no uniqueness constraint on the edge.
func (w *Writer) ApplyAll(ctx context.Context, tx pgx.Tx, userID uuid.UUID, centerIDs []string) (int, error) {
	query := `
		INSERT INTO user_center_access (id, user_id, center_id)
		SELECT $1, $2, id FROM centers WHERE id = $3
	`

	granted := 0
	for _, centerID := range centerIDs {
		tag, err := tx.Exec(ctx, query, uuid.New(), userID, centerID)
		if err != nil {
			return 0, fmt.Errorf("failed to write access grant: %w", err)
		}
		granted += int(tag.RowsAffected())
	}

	return granted, nil
}

// ListUserCenterIDs returns the ids of all centers the user holds grants for,
// oldest grant first. Duplicates are collapsed.
func (w *Writer) ListUserCenterIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT center_id
		FROM user_center_access
		WHERE user_id = $1
		GROUP BY center_id
		ORDER BY MIN(created_at) ASC
	`

	rows, err := w.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user grants: %w", err)
	}
	defer rows.Close()

	var centerIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		centerIDs = append(centerIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grants: %w", err)
	}

	return centerIDs, nil
}
