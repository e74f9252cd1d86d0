// Package agent exposes the chat and scan operations over HTTP.
package agent

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	agentmodel "github.com/finance1/summary-agent/backend/internal/model/agent"
	"github.com/finance1/summary-agent/backend/pkg/utils"
)

// Orchestrator runs the chat and scan pipelines.
type Orchestrator interface {
	Chat(ctx context.Context, req agentmodel.ChatRequest) (agentmodel.ChatResponse, error)
	Scan(ctx context.Context, req agentmodel.ScanRequest) (agentmodel.ScanResponse, error)
}

// Handler serves chat and scan requests from the embedded widget.
type Handler struct {
	orchestrator Orchestrator
	scanEnabled  bool
}

// New creates the agent handler.
func New(orchestrator Orchestrator, scanEnabled bool) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		scanEnabled:  scanEnabled,
	}
}

// RegisterRoutes mounts the chat and scan endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/scan", h.handleScan)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req agentmodel.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.orchestrator.Chat(r.Context(), req)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	if !h.scanEnabled {
		utils.RespondJSON(w, http.StatusServiceUnavailable, agentmodel.ScanResponse{
			Recommendations: []agentmodel.Recommendation{},
		})
		return
	}

	var req agentmodel.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.orchestrator.Scan(r.Context(), req)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}
