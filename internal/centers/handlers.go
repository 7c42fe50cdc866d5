package centers

import (
	"errors"
	"net/http"

	"github.com/centerpass/centerpass/internal/apperrors"
	"github.com/centerpass/centerpass/internal/auth"
	"github.com/centerpass/centerpass/internal/users"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// HandleListAll handles GET /api/v1/centers
func HandleListAll(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		callerID := auth.GetUserID(ctx)

		service := NewService(pool)
		centers, err := service.ListAll(ctx, callerID)
		if err != nil {
			if errors.Is(err, users.ErrForbidden) {
				apperrors.WriteForbidden(w, r, "Only superadmins can view all centers")
				return
			}
			log.Error().Err(err).Msg("Failed to list centers")
			apperrors.WriteInternalError(w, r, "Failed to list centers")
			return
		}

		apperrors.WriteSuccess(w, r, http.StatusOK, map[string]any{
			"centers": centers,
		})
	}
}
