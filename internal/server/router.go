package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the plan handler into the HTTP surface and stacks the
// middleware: recovery innermost, then logging, CORS outermost so preflight
// requests are answered before anything else runs.
func NewRouter(h *PlanHandler, allowedOrigins []string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := mux.NewRouter()
	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/analyze", h.Analyze).Methods(http.MethodPost)
	r.HandleFunc("/save-plan", h.SavePlan).Methods(http.MethodPost)
	r.HandleFunc("/plan/{plan_id}", h.GetPlan).Methods(http.MethodGet)
	r.HandleFunc("/plan/{plan_id}/export", h.ExportPlan).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = RecoveryMiddleware(logger)(handler)
	handler = LoggingMiddleware(logger)(handler)
	handler = CORSMiddleware(allowedOrigins)(handler)
	return handler
}
