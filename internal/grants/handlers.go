package grants

import (
	"net/http"

	"github.com/centerpass/centerpass/internal/apperrors"
	"github.com/centerpass/centerpass/internal/auth"
	"github.com/centerpass/centerpass/internal/centers"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// HandleMyCenters handles GET /api/v1/me/centers
// Returns the centers the session user holds access grants for.
func HandleMyCenters(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := auth.GetUserID(ctx)

		writer := NewWriter(pool)
		centerIDs, err := writer.ListUserCenterIDs(ctx, userID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to list user grants")
			apperrors.WriteInternalError(w, r, "Failed to list your centers")
			return
		}

		resolved, err := centers.NewService(pool).GetByIDs(ctx, centerIDs)
		if err != nil {
			log.Error().Err(err).Msg("Failed to resolve granted centers")
			apperrors.WriteInternalError(w, r, "Failed to list your centers")
			return
		}

		apperrors.WriteSuccess(w, r, http.StatusOK, map[string]any{
			"centers": resolved,
		})
	}
}
