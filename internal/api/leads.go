package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/logging"
)

// handleListLeads returns recent leads for the agent workspace
// GET /api/v1/leads?status=&agent=&limit=
func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireRole(w, r, "agent", "admin"); !ok {
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	var leads []*core.Lead
	var err error

	switch {
	case r.URL.Query().Get("status") != "":
		status := core.LeadStatus(r.URL.Query().Get("status"))
		leads, err = s.leadStore.GetByStatus(status, limit)
	case r.URL.Query().Get("agent") != "":
		agentID := core.AgentID(r.URL.Query().Get("agent"))
		leads, err = s.leadStore.GetByAgent(agentID, limit)
	default:
		leads, err = s.leadStore.GetRecent(limit)
	}

	if err != nil {
		logging.WithField("error", err).Error("lead list failed")
		s.respondError(w, http.StatusInternalServerError, "request failed, please try again")
		return
	}

	s.respondJSON(w, http.StatusOK, leads)
}

// handleGetLead returns a single lead
// GET /api/v1/leads/{leadID}
func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireRole(w, r, "agent", "admin"); !ok {
		return
	}

	leadID := core.LeadID(chi.URLParam(r, "leadID"))
	lead, err := s.leadStore.GetByID(leadID)
	if err != nil {
		if errors.Is(err, core.ErrLeadNotFound) {
			s.respondError(w, http.StatusNotFound, "lead not found")
			return
		}
		logging.WithField("error", err).Error("lead fetch failed")
		s.respondError(w, http.StatusInternalServerError, "request failed, please try again")
		return
	}

	s.respondJSON(w, http.StatusOK, lead)
}

// handleUpdateLeadStatus applies an operator transition
// PUT /api/v1/leads/{leadID}/status
func (s *Server) handleUpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireRole(w, r, "agent", "admin")
	if !ok {
		return
	}

	var input struct {
		Status core.LeadStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	leadID := core.LeadID(chi.URLParam(r, "leadID"))
	lead, err := s.handoffService.UpdateStatus(sess, leadID, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrLeadNotFound):
			s.respondError(w, http.StatusNotFound, "lead not found")
		case errors.Is(err, core.ErrInvalidTransition):
			s.respondError(w, http.StatusConflict, err.Error())
		default:
			logging.WithField("error", err).Error("lead status update failed")
			s.respondError(w, http.StatusInternalServerError, "request failed, please try again")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, lead)
}
