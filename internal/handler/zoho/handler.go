// Package zoho handles action execution requests and CRM metadata
// lookups from the embedded widget.
package zoho

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	agentmodel "github.com/finance1/summary-agent/backend/internal/model/agent"
	"github.com/finance1/summary-agent/backend/pkg/utils"
)

// Handler validates widget actions and answers metadata probes.
type Handler struct {
	development bool
}

// New creates the zoho handler.
func New(development bool) *Handler {
	return &Handler{development: development}
}

// RegisterRoutes mounts the execute and metadata endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/zoho/execute", h.handleExecute)
	r.Get("/zoho/metadata", h.handleMetadata)
}

// handleExecute validates an action and hands it back. Actions run
// inside the widget through the Zoho embedded-app JS SDK, which holds
// the user's session; the server only vets the payload.
func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req agentmodel.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Action == nil {
		utils.RespondError(w, http.StatusBadRequest, "action is required")
		return
	}
	if err := req.Action.Validate(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, agentmodel.ExecuteResponse{
		Success: true,
		Message: fmt.Sprintf("Action '%s' validated; execute it in the widget via the Zoho SDK", req.Action.Type),
		Data: map[string]any{
			"action":      req.Action,
			"entity_id":   req.EntityID,
			"entity_type": req.EntityType,
			"instruction": "execute_client_side",
		},
	})
}

// handleMetadata is a development aid. Field metadata comes from the
// CRM settings API, which this deployment does not proxy yet.
func (h *Handler) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if !h.development {
		utils.RespondError(w, http.StatusForbidden, "metadata endpoint is disabled outside development")
		return
	}

	utils.RespondJSON(w, http.StatusNotImplemented, map[string]any{
		"error": "metadata proxy not implemented",
		"hint":  "query the Zoho CRM settings/fields API directly with a module parameter",
	})
}
