// Package stream serves the chat pipeline over Server-Sent Events so
// the widget can render the answer as it is generated.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	agentmodel "github.com/finance1/summary-agent/backend/internal/model/agent"
	"github.com/finance1/summary-agent/backend/pkg/utils"
)

// Orchestrator runs a streaming chat turn, invoking emit for each
// text delta before returning the parsed response.
type Orchestrator interface {
	ChatStream(ctx context.Context, req agentmodel.ChatRequest, emit func(delta string)) (agentmodel.ChatResponse, error)
}

// Handler streams chat responses.
type Handler struct {
	orchestrator Orchestrator
	log          *zap.Logger
}

// New creates the stream handler.
func New(orchestrator Orchestrator, log *zap.Logger) *Handler {
	return &Handler{orchestrator: orchestrator, log: log}
}

// StreamResponse is one SSE frame. Event is one of start, delta,
// result, end or error. Result frames carry the final parsed chat
// response as JSON in Content.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RegisterRoutes mounts the streaming chat endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/stream", h.handleChatStream)
}

// handleChatStream reads the chat turn from query parameters, as
// EventSource clients cannot send a body.
func (h *Handler) handleChatStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	req := requestFromQuery(r)
	requestID := uuid.NewString()

	utils.SetupSSEHeaders(w)

	h.send(w, flusher, StreamResponse{Event: "start", RequestID: requestID})

	resp, err := h.orchestrator.ChatStream(r.Context(), req, func(delta string) {
		h.send(w, flusher, StreamResponse{
			Event:     "delta",
			RequestID: requestID,
			Content:   delta,
		})
	})
	if err != nil {
		h.log.Warn("streaming chat turn failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.send(w, flusher, StreamResponse{
			Event:     "error",
			RequestID: requestID,
			Error:     err.Error(),
		})
		return
	}

	final, err := json.Marshal(resp)
	if err != nil {
		h.send(w, flusher, StreamResponse{
			Event:     "error",
			RequestID: requestID,
			Error:     "failed to encode response",
		})
		return
	}

	h.send(w, flusher, StreamResponse{
		Event:     "result",
		RequestID: requestID,
		Content:   string(final),
	})
	h.send(w, flusher, StreamResponse{
		Event:     "end",
		RequestID: requestID,
		Finished:  true,
	})
}

func requestFromQuery(r *http.Request) agentmodel.ChatRequest {
	q := r.URL.Query()

	var modules []string
	if raw := q.Get("modules"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				modules = append(modules, m)
			}
		}
	}

	return agentmodel.ChatRequest{
		EntityID:   q.Get("entity_id"),
		AccountID:  q.Get("account_id"),
		EntityType: q.Get("entity_type"),
		Modules:    modules,
		Query:      q.Get("query"),
	}
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}
