// Package handler wires HTTP routes to the services behind them.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	agentHandler "github.com/finance1/summary-agent/backend/internal/handler/agent"
	"github.com/finance1/summary-agent/backend/internal/handler/stream"
	uploadHandler "github.com/finance1/summary-agent/backend/internal/handler/upload"
	zohoHandler "github.com/finance1/summary-agent/backend/internal/handler/zoho"
	"github.com/finance1/summary-agent/backend/pkg/utils"
)

// Deps carries the collaborators the router needs. Nil services mark
// their endpoints unavailable instead of being left unrouted, so the
// widget gets a clear 503 rather than a 404.
type Deps struct {
	Orchestrator agentHandler.Orchestrator
	Streamer     stream.Orchestrator
	Store        uploadHandler.Storer
	ScanEnabled  bool
	Development  bool
	Log          *zap.Logger
}

// NewRouter builds the HTTP handler for the widget backend.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(api chi.Router) {
		if deps.Orchestrator != nil {
			agentHandler.New(deps.Orchestrator, deps.ScanEnabled).RegisterRoutes(api)
		} else {
			api.Post("/chat", handleUnavailable)
			api.Post("/scan", handleUnavailable)
		}

		if deps.Streamer != nil {
			stream.New(deps.Streamer, deps.Log).RegisterRoutes(api)
		} else {
			api.Get("/chat/stream", handleUnavailable)
		}

		uploadHandler.New(deps.Store, deps.Log).RegisterRoutes(api)
		zohoHandler.New(deps.Development).RegisterRoutes(api)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	return r
}

func handleUnavailable(w http.ResponseWriter, _ *http.Request) {
	utils.RespondError(w, http.StatusServiceUnavailable, "service is not configured")
}
