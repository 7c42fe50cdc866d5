package invitations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/centerpass/centerpass/internal/apperrors"
	"github.com/centerpass/centerpass/internal/auth"
	"github.com/centerpass/centerpass/internal/users"
	"github.com/centerpass/centerpass/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// CreateRequest represents the invitation creation payload
type CreateRequest struct {
	CenterIDs     []string `json:"center_ids"`
	ExpiresInDays int      `json:"expires_in_days"`
}

// CreateResponse carries the issued token back to the superadmin
type CreateResponse struct {
	Token string `json:"token"`
}

// ConsumeRequest represents the redemption payload
type ConsumeRequest struct {
	Token string `json:"token"`
}

// ConsumeResponse reports a successful redemption
type ConsumeResponse struct {
	Success         bool `json:"success"`
	AssignedCenters int  `json:"assigned_centers"`
}

// HandleCreate handles POST /api/v1/invitations
func HandleCreate(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		issuerID := auth.GetUserID(ctx)

		var req CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperrors.WriteBadRequest(w, r, "Invalid request body")
			return
		}

		if req.ExpiresInDays == 0 {
			req.ExpiresInDays = validation.DefaultExpiryDays
		}

		service := NewService(pool)
		token, err := service.Create(ctx, issuerID, req.CenterIDs, req.ExpiresInDays)
		if err != nil {
			if errors.Is(err, users.ErrForbidden) {
				apperrors.WriteForbidden(w, r, "Only superadmins can create invitations")
				return
			}
			if errors.Is(err, validation.ErrInvalidInput) {
				apperrors.WriteBadRequest(w, r, err.Error())
				return
			}
			log.Error().Err(err).Msg("Failed to create invitation")
			apperrors.WriteInternalError(w, r, "Failed to create invitation")
			return
		}

		apperrors.WriteSuccess(w, r, http.StatusCreated, CreateResponse{
			Token: token,
		})
	}
}

// HandleGet handles GET /api/v1/invitations/{token}
// No authentication: the token itself is the credential to view.
func HandleGet(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := strings.TrimSpace(chi.URLParam(r, "token"))
		if token == "" {
			apperrors.WriteBadRequest(w, r, "Invitation token is required")
			return
		}

		service := NewService(pool)
		details, err := service.GetByToken(ctx, token)
		if err != nil {
			writeLookupError(w, r, err)
			return
		}

		apperrors.WriteSuccess(w, r, http.StatusOK, details)
	}
}

// HandleConsume handles POST /api/v1/invitations/consume
// The redeeming user is the session user; a caller cannot redeem on
// someone else's behalf.
func HandleConsume(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := auth.GetUserID(ctx)

		var req ConsumeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperrors.WriteBadRequest(w, r, "Invalid request body")
			return
		}

		req.Token = strings.TrimSpace(req.Token)
		if req.Token == "" {
			apperrors.WriteBadRequest(w, r, "Invitation token is required")
			return
		}

		service := NewService(pool)
		granted, err := service.Consume(ctx, req.Token, userID)
		if err != nil {
			writeLookupError(w, r, err)
			return
		}

		apperrors.WriteSuccess(w, r, http.StatusOK, ConsumeResponse{
			Success:         true,
			AssignedCenters: granted,
		})
	}
}

// writeLookupError maps invitation state errors to responses. The token
// value is deliberately absent from logs and messages.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		apperrors.WriteNotFound(w, r, "Invalid invitation")
	case errors.Is(err, ErrAlreadyUsed):
		apperrors.WriteConflict(w, r, "Invitation already used")
	case errors.Is(err, ErrExpired):
		apperrors.WriteGone(w, r, "Invitation expired")
	default:
		log.Error().Err(err).Msg("Invitation lookup failed")
		apperrors.WriteInternalError(w, r, "Failed to process invitation")
	}
}
