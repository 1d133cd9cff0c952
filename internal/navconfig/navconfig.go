// Package navconfig serves the static navigation tile grid: which panels
// exist and where they live. Pure configuration, no behavior.
package navconfig

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"groupdeck/internal/platform/middleware"
	"groupdeck/internal/transport/http/shared"
)

// Tile is one navigation entry.
type Tile struct {
	Title string `json:"title"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

// DefaultTiles lists the built-in panels.
func DefaultTiles() []Tile {
	return []Tile{
		{Title: "Zones", Path: "/panels/zones", Icon: "mdi:floor-plan"},
		{Title: "Tags", Path: "/panels/tags", Icon: "mdi:tag-multiple"},
		{Title: "Profile", Path: "/profile", Icon: "mdi:account"},
		{Title: "Notices", Path: "/notices", Icon: "mdi:bell-outline"},
	}
}

// Handler serves the tile grid.
type Handler struct {
	logger *slog.Logger
	tiles  []Tile
}

// NewHandler creates a navigation Handler. Nil tiles means the defaults.
func NewHandler(tiles []Tile, logger *slog.Logger) *Handler {
	if tiles == nil {
		tiles = DefaultTiles()
	}
	return &Handler{logger: logger, tiles: tiles}
}

// Register registers the navigation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	navRouter := chi.NewRouter()
	navRouter.Use(middleware.Recovery(h.logger))
	navRouter.Use(middleware.RequestID)
	navRouter.Use(middleware.Timeout(5 * time.Second))
	navRouter.Get("/tiles", h.handleTiles)

	r.Mount("/nav", navRouter)
}

func (h *Handler) handleTiles(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]any{"tiles": h.tiles})
}
