package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/estateflow/estateflow/internal/advisor"
	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/logging"
)

// chatRequest is the advisor conversation payload
type chatRequest struct {
	Role       advisor.Role       `json:"role"`
	Messages   []core.ChatMessage `json:"messages"`
	Confidence *float64           `json:"confidence,omitempty"`
}

// handleChat streams an advisor completion back to the browser as SSE, in
// the same data format the upstream completion service uses. A "meta" event
// carrying the handoff suggestion precedes the content stream.
// POST /api/v1/chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireRole(w, r); !ok {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Messages) == 0 {
		s.respondError(w, http.StatusBadRequest, "messages required")
		return
	}

	contentChan, errChan, err := s.chatAdvisor.Stream(r.Context(), req.Role, req.Messages)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, core.ErrLLMUnavailable):
			s.respondError(w, http.StatusServiceUnavailable, "chat service unavailable")
		default:
			logging.WithField("error", err).Error("chat stream start failed")
			s.respondError(w, http.StatusInternalServerError, "request failed, please try again")
		}
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Suggest a handoff based on the latest user message before any content
	lastUser := lastUserMessage(req.Messages)
	suggestion := advisor.SuggestHandoff(lastUser, req.Confidence)
	meta, _ := json.Marshal(suggestion)
	fmt.Fprintf(w, "event: meta\ndata: %s\n\n", meta)
	flusher.Flush()

	for delta := range contentChan {
		chunk := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"delta": map[string]string{"content": delta}},
			},
		}
		data, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	if err := <-errChan; err != nil {
		logging.WithField("error", err).Error("chat stream failed")
		fmt.Fprintf(w, "event: error\ndata: %q\n\n", "stream failed")
		flusher.Flush()
		return
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func lastUserMessage(messages []core.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == core.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
