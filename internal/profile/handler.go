// Package profile is the thin backend of the account panel: it lists the
// hub's users and exposes the restart action. Unlike the grouping panels this
// surface may report failures directly to the caller.
package profile

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"groupdeck/internal/hub"
	"groupdeck/internal/platform/middleware"
	"groupdeck/internal/transport/http/shared"
	dErrors "groupdeck/pkg/domain-errors"
)

// HubClient is the slice of the hub API the profile panel needs.
type HubClient interface {
	Persons(ctx context.Context) ([]hub.Person, error)
	Restart(ctx context.Context) error
}

// Handler serves the profile panel endpoints.
type Handler struct {
	logger       *slog.Logger
	hub          HubClient
	jwtValidator middleware.JWTValidator
}

// NewHandler creates a profile Handler.
func NewHandler(client HubClient, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{logger: logger, hub: client, jwtValidator: jwtValidator}
}

// Register registers the profile routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	profileRouter := chi.NewRouter()
	profileRouter.Use(middleware.Recovery(h.logger))
	profileRouter.Use(middleware.RequestID)
	profileRouter.Use(middleware.Logger(h.logger))
	profileRouter.Use(middleware.Timeout(15 * time.Second))

	profileRouter.Get("/users", h.handleUsers)

	profileRouter.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/restart", h.handleRestart)
	})

	r.Mount("/profile", profileRouter)
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	persons, err := h.hub.Persons(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list hub users",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load users"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"users": persons})
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.hub.Restart(ctx); err != nil {
		h.logger.ErrorContext(ctx, "hub restart request failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "restart request failed"))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
