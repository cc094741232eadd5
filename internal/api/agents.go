package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/logging"
)

// handleListAgents returns all agents for the admin screen
// GET /api/v1/agents
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireRole(w, r, "admin"); !ok {
		return
	}

	agents, err := s.agentStore.GetAll()
	if err != nil {
		logging.WithField("error", err).Error("agent list failed")
		s.respondError(w, http.StatusInternalServerError, "request failed, please try again")
		return
	}

	s.respondJSON(w, http.StatusOK, agents)
}

// handleCreateAgent registers a new agent record
// POST /api/v1/agents
func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireRole(w, r, "admin")
	if !ok {
		return
	}

	var input struct {
		UserID          string   `json:"user_id"`
		AgencyName      string   `json:"agency_name"`
		AreasServed     []string `json:"areas_served"`
		Specializations []string `json:"specializations"`
		Verified        bool     `json:"verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if input.UserID == "" {
		s.respondError(w, http.StatusBadRequest, "user_id required")
		return
	}

	agent := &core.Agent{
		ID:              core.AgentID(uuid.New().String()),
		UserID:          input.UserID,
		AgencyName:      input.AgencyName,
		AreasServed:     input.AreasServed,
		Specializations: input.Specializations,
		Verified:        input.Verified,
	}

	if err := s.agentStore.Create(agent); err != nil {
		logging.WithField("error", err).Error("agent create failed")
		s.respondError(w, http.StatusInternalServerError, "request failed, please try again")
		return
	}

	if s.ledgerRecorder != nil {
		if err := s.ledgerRecorder.RecordAgentCreated(sess.UserID, agent); err != nil {
			logging.WithField("error", err).Error("audit append failed for agent create")
		}
	}

	s.respondJSON(w, http.StatusCreated, agent)
}

// handleVerifyAgent flips the eligibility flag used by the matcher
// PUT /api/v1/agents/{agentID}/verify
func (s *Server) handleVerifyAgent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireRole(w, r, "admin")
	if !ok {
		return
	}

	var input struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	agentID := core.AgentID(chi.URLParam(r, "agentID"))
	if err := s.agentStore.SetVerified(agentID, input.Verified); err != nil {
		if errors.Is(err, core.ErrAgentNotFound) {
			s.respondError(w, http.StatusNotFound, "agent not found")
			return
		}
		logging.WithField("error", err).Error("agent verify failed")
		s.respondError(w, http.StatusInternalServerError, "request failed, please try again")
		return
	}

	if s.ledgerRecorder != nil {
		if err := s.ledgerRecorder.RecordAgentVerified(sess.UserID, agentID, input.Verified); err != nil {
			logging.WithField("error", err).Error("audit append failed for agent verify")
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       agentID,
		"verified": input.Verified,
	})
}
