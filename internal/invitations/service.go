package invitations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/centerpass/centerpass/internal/centers"
	"github.com/centerpass/centerpass/internal/grants"
	"github.com/centerpass/centerpass/internal/users"
	"github.com/centerpass/centerpass/internal/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// createAttempts bounds regeneration retries on a token collision
const createAttempts = 3

// Service owns the invitation lifecycle: creation, inspection, and
// exactly-once redemption. All state lives in the store; the service holds
// no mutable state of its own.
type Service struct {
	pool    *pgxpool.Pool
	roles   *users.Directory
	centers *centers.Service
	grants  *grants.Writer
}

// NewService creates a new invitation service
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{
		pool:    pool,
		roles:   users.NewDirectory(pool),
		centers: centers.NewService(pool),
		grants:  grants.NewWriter(pool),
	}
}

// Create issues a new invitation for the given centers, expiring after
// expiresInDays days. Only superadmins may issue invitations; the caller's
// role is resolved through the role directory, never trusted from input.
// Returns the token to hand to the invitee.
//
// A unique-violation on the token column means two generated tokens
// collided; the token is regenerated and the insert retried a bounded
// number of times rather than surfacing the conflict to the issuer.
func (s *Service) Create(ctx context.Context, issuerID uuid.UUID, centerIDs []string, expiresInDays int) (string, error) {
	if err := s.roles.RequireSuperadmin(ctx, issuerID); err != nil {
		return "", err
	}

	if err := validateCreateInput(centerIDs, expiresInDays); err != nil {
		return "", err
	}

	centerIDsJSON, err := json.Marshal(centerIDs)
	if err != nil {
		return "", fmt.Errorf("failed to encode center ids: %w", err)
	}

	expiresAt := time.Now().UTC().Add(time.Duration(expiresInDays) * 24 * time.Hour)

	for attempt := 0; attempt < createAttempts; attempt++ {
		token, err := GenerateToken()
		if err != nil {
			return "", err
		}

		_, err = s.pool.Exec(ctx, `
			INSERT INTO invitations (id, token, center_ids, expires_at, created_by)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New(), token, centerIDsJSON, expiresAt, issuerID)
		if err == nil {
			log.Info().
				Str("issuer_id", issuerID.String()).
				Int("center_count", len(centerIDs)).
				Time("expires_at", expiresAt).
				Msg("Invitation created")
			return token, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Token collision (extremely unlikely); regenerate and retry.
			continue
		}
		return "", fmt.Errorf("failed to create invitation: %w", err)
	}

	return "", fmt.Errorf("failed to create invitation: token collision retry exhausted")
}

// GetByToken inspects an invitation. No authorization is required: holding
// the token is the credential to view it. Validations apply in fixed order
// (existence, used, expired) and center ids that no longer resolve are
// dropped from the result rather than failing the lookup.
func (s *Service) GetByToken(ctx context.Context, token string) (*Details, error) {
	if !ValidateTokenFormat(token) {
		return nil, ErrNotFound
	}

	inv, err := s.loadByToken(ctx, s.pool, token, false)
	if err != nil {
		return nil, err
	}
	if err := inv.checkRedeemable(time.Now().UTC()); err != nil {
		return nil, err
	}

	resolved, err := s.centers.GetByIDs(ctx, inv.CenterIDs)
	if err != nil {
		return nil, err
	}

	return &Details{
		Token:     inv.Token,
		ExpiresAt: inv.ExpiresAt,
		Centers:   resolved,
	}, nil
}

// Consume redeems an invitation for the given user. The state is
// re-validated inside the transaction: a prior GetByToken proves nothing,
// since the invitation may have been redeemed or expired in the meantime.
//
// The claim itself is a conditional update gated on used = FALSE; its
// affected-row count decides whether grants are written, so two concurrent
// consumers of the same token can never both succeed and grants can never
// be written twice. The grant inserts commit or roll back together with
// the claim. Returns the number of grants written.
func (s *Service) Consume(ctx context.Context, token string, userID uuid.UUID) (int, error) {
	if !ValidateTokenFormat(token) {
		return 0, ErrNotFound
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	inv, err := s.loadByToken(ctx, tx, token, true)
	if err != nil {
		return 0, err
	}
	if err := inv.checkRedeemable(time.Now().UTC()); err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE invitations
		SET used = TRUE, used_by = $2
		WHERE id = $1
		  AND used = FALSE
	`, inv.ID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark invitation used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrAlreadyUsed
	}

	granted, err := s.grants.ApplyAll(ctx, tx, userID, inv.CenterIDs)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Int("granted", granted).
		Msg("Invitation consumed")

	return granted, nil
}

func validateCreateInput(centerIDs []string, expiresInDays int) error {
	if err := validation.ValidateCenterIDs(centerIDs); err != nil {
		return err
	}
	return validation.ValidateExpiryDays(expiresInDays)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// loadByToken reads an invitation row by token. With forUpdate set the row
// is locked for the duration of the caller's transaction, serializing
// concurrent redemption attempts on the same token.
func (s *Service) loadByToken(ctx context.Context, q querier, token string, forUpdate bool) (*Invitation, error) {
	query := `
		SELECT id, token, center_ids, expires_at, used, used_by, created_by, created_at
		FROM invitations
		WHERE token = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var inv Invitation
	var centerIDsJSON []byte
	err := q.QueryRow(ctx, query, token).Scan(
		&inv.ID,
		&inv.Token,
		&centerIDsJSON,
		&inv.ExpiresAt,
		&inv.Used,
		&inv.UsedBy,
		&inv.CreatedBy,
		&inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}

	if err := json.Unmarshal(centerIDsJSON, &inv.CenterIDs); err != nil {
		return nil, fmt.Errorf("failed to decode center ids: %w", err)
	}

	return &inv, nil
}
