package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/handoff"
	"github.com/estateflow/estateflow/internal/logging"
)

// handoffRequest is the submission payload: the contact form plus the
// conversation context the advisor accumulated.
type handoffRequest struct {
	Form    handoff.Form `json:"form"`
	Context struct {
		Conversation []core.ChatMessage `json:"conversation"`
		PropertyID   core.PropertyID    `json:"propertyId,omitempty"`
		Shortlist    []core.PropertyID  `json:"shortlist,omitempty"`
		Confidence   *float64           `json:"confidence,omitempty"`
	} `json:"context"`
}

// handleSubmitHandoff runs the handoff pipeline for the signed-in user
// POST /api/v1/handoff
func (s *Server) handleSubmitHandoff(w http.ResponseWriter, r *http.Request) {
	var req handoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sess := sessionFrom(r)
	if !sess.Authenticated() {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	hctx := core.HandoffContext{
		Conversation: req.Context.Conversation,
		Shortlist:    req.Context.Shortlist,
		Confidence:   req.Context.Confidence,
	}

	// A missing property is a lookup miss, not a failure: the handoff
	// proceeds without the property context.
	if req.Context.PropertyID != "" {
		property, err := s.propertyStore.GetByID(req.Context.PropertyID)
		if err == nil {
			hctx.Property = property
		} else if !errors.Is(err, core.ErrPropertyNotFound) {
			logging.WithField("error", err).Error("property lookup failed")
		}
	}

	result, err := s.handoffService.Submit(sess, req.Form, hctx)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAuthRequired):
			s.respondError(w, http.StatusUnauthorized, "authentication required")
		case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrMissingRequired):
			s.respondError(w, http.StatusBadRequest, err.Error())
		default:
			logging.WithField("error", err).Error("handoff submission failed")
			s.respondError(w, http.StatusInternalServerError, "request failed, please try again")
		}
		return
	}

	s.respondJSON(w, http.StatusCreated, result)
}
