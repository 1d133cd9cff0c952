package notice

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"groupdeck/internal/platform/middleware"
	"groupdeck/internal/transport/http/shared"
)

// Handler serves the notice feed.
type Handler struct {
	logger *slog.Logger
	board  *Board
}

// NewHandler creates a notice Handler.
func NewHandler(board *Board, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, board: board}
}

// Register registers the notice routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	noticeRouter := chi.NewRouter()
	noticeRouter.Use(middleware.Recovery(h.logger))
	noticeRouter.Use(middleware.RequestID)
	noticeRouter.Use(middleware.Timeout(5 * time.Second))
	noticeRouter.Get("/", h.handleList)

	r.Mount("/notices", noticeRouter)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"notices": h.board.Recent(),
	})
}
