package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Feature is anything that mounts routes on the shared router. Each feature
// package brings its own middleware stack.
type Feature interface {
	Register(r chi.Router)
}

// NewRouter assembles the public HTTP surface from feature handlers plus the
// operational endpoints.
func NewRouter(features ...Feature) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, f := range features {
		f.Register(r)
	}
	return r
}
