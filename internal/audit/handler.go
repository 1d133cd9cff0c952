package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"groupdeck/internal/platform/middleware"
	"groupdeck/internal/transport/http/shared"
	dErrors "groupdeck/pkg/domain-errors"
)

// Handler exposes the mutation trail to authenticated operators.
type Handler struct {
	logger       *slog.Logger
	trail        *Trail
	jwtValidator middleware.JWTValidator
}

// NewHandler creates an audit Handler.
func NewHandler(trail *Trail, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{logger: logger, trail: trail, jwtValidator: jwtValidator}
}

// Register registers the audit routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	auditRouter := chi.NewRouter()
	auditRouter.Use(middleware.Recovery(h.logger))
	auditRouter.Use(middleware.RequestID)
	auditRouter.Use(middleware.Timeout(10 * time.Second))
	auditRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	auditRouter.Get("/recent", h.handleRecent)

	r.Mount("/audit", auditRouter)
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and 500"))
			return
		}
		limit = parsed
	}

	records, err := h.trail.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit records",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list records"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"records": records})
}
