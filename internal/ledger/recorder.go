package ledger

import (
	"github.com/estateflow/estateflow/internal/core"
)

// Recorder provides a convenient interface for recording common actions
type Recorder struct {
	store *Store
}

// NewRecorder creates a recorder for the given store
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// RecordHandoffCreated records a lead created by the handoff pipeline.
// Details capture the priority inputs and the (possibly absent) assignment so
// operators can reconstruct why a lead landed where it did.
func (r *Recorder) RecordHandoffCreated(actor string, lead *core.Lead, confidence *float64, assigned core.AgentID) error {
	details := map[string]interface{}{
		"lead_type": lead.Type,
		"priority":  lead.Priority,
	}
	if confidence != nil {
		details["confidence"] = *confidence
	}
	if assigned != "" {
		details["assigned_agent_id"] = string(assigned)
	}
	if lead.PropertyID != "" {
		details["property_id"] = string(lead.PropertyID)
	}

	_, err := r.store.Append(ActionHandoffCreated, actor, "lead", string(lead.ID), details)
	return err
}

// RecordLeadStatusChanged records an operator-driven lifecycle transition
func (r *Recorder) RecordLeadStatusChanged(actor string, leadID core.LeadID, from, to core.LeadStatus) error {
	_, err := r.store.Append(ActionLeadStatusChanged, actor, "lead", string(leadID), map[string]interface{}{
		"from": from,
		"to":   to,
	})
	return err
}

// RecordAgentCreated records an admin creating an agent record
func (r *Recorder) RecordAgentCreated(actor string, agent *core.Agent) error {
	_, err := r.store.Append(ActionAgentCreated, actor, "agent", string(agent.ID), map[string]interface{}{
		"agency_name": agent.AgencyName,
		"verified":    agent.Verified,
	})
	return err
}

// RecordAgentVerified records a verification flag change
func (r *Recorder) RecordAgentVerified(actor string, agentID core.AgentID, verified bool) error {
	action := ActionAgentVerified
	if !verified {
		action = ActionAgentUnverified
	}
	_, err := r.store.Append(action, actor, "agent", string(agentID), nil)
	return err
}
