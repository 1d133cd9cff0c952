package panel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"groupdeck/internal/platform/metrics"
	"groupdeck/internal/platform/middleware"
	"groupdeck/internal/transport/http/shared"
	dErrors "groupdeck/pkg/domain-errors"
)

// Handler exposes the panel surfaces and their drag endpoints. Reads are
// open; drops and domain selection require an authenticated operator.
type Handler struct {
	logger       *slog.Logger
	panels       map[string]*Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// NewHandler creates a panel Handler serving the given services, keyed by
// their semantics name.
func NewHandler(services []*Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	panels := make(map[string]*Service, len(services))
	for _, svc := range services {
		panels[svc.sem.Name()] = svc
	}
	return &Handler{
		logger:       logger,
		panels:       panels,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register registers the panel routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	panelRouter := chi.NewRouter()
	panelRouter.Use(middleware.Recovery(h.logger))
	panelRouter.Use(middleware.RequestID)
	panelRouter.Use(middleware.Logger(h.logger))
	panelRouter.Use(middleware.Timeout(10 * time.Second))
	panelRouter.Use(middleware.ContentTypeJSON)
	panelRouter.Use(middleware.LatencyMiddleware(h.metrics))

	panelRouter.Get("/{panel}/surface", h.handleSurface)

	panelRouter.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/{panel}/drop", h.handleDrop)
		r.Post("/{panel}/domain", h.handleSelectDomain)
	})

	r.Mount("/panels", panelRouter)
}

func (h *Handler) service(w http.ResponseWriter, r *http.Request) (*Service, bool) {
	name := chi.URLParam(r, "panel")
	svc, ok := h.panels[name]
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown panel"))
		return nil, false
	}
	return svc, true
}

// handleSurface returns the current render model for one panel.
func (h *Handler) handleSurface(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	shared.WriteJSON(w, http.StatusOK, svc.Surface())
}

// handleDrop accepts one drag release and acknowledges it before the hub has
// confirmed anything; the next snapshot push is the reconciliation point.
func (h *Handler) handleDrop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	var ev DropEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.logger.WarnContext(ctx, "invalid drop request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := svc.Drop(ctx, ev); err != nil {
		if dErrors.Is(err, dErrors.CodeInvalidInput) || dErrors.Is(err, dErrors.CodeUnavailable) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to handle drop",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to handle drop"))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// handleSelectDomain moves the domain filter for one panel.
func (h *Handler) handleSelectDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	var req struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Domain == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "domain is required"))
		return
	}

	if !svc.SelectDomain(ctx, req.Domain) {
		// Not an error: the client held a stale domain list. The filter
		// stays where it was.
		shared.WriteJSON(w, http.StatusOK, map[string]any{"selected": false})
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"selected": true})
}
