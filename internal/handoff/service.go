package handoff

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/intent"
	"github.com/estateflow/estateflow/internal/logging"
	"github.com/estateflow/estateflow/internal/match"
)

// LeadStore is the slice of lead persistence the service needs
type LeadStore interface {
	Create(lead *core.Lead) error
	GetByID(id core.LeadID) (*core.Lead, error)
	UpdateStatus(id core.LeadID, status core.LeadStatus) error
}

// AgentMatcher selects the best verified agent, or nil for none
type AgentMatcher interface {
	Match(criteria match.Criteria) *match.Result
}

// AuditRecorder appends audit events for handoff activity
type AuditRecorder interface {
	RecordHandoffCreated(actor string, lead *core.Lead, confidence *float64, assigned core.AgentID) error
	RecordLeadStatusChanged(actor string, leadID core.LeadID, from, to core.LeadStatus) error
}

// Notifier receives lead lifecycle events for live dashboards. May be nil.
type Notifier interface {
	LeadCreated(lead *core.Lead)
	LeadUpdated(lead *core.Lead)
}

// Service is the handoff orchestrator
type Service struct {
	leads    LeadStore
	matcher  AgentMatcher
	audit    AuditRecorder
	notifier Notifier
}

// New creates a handoff service. notifier may be nil.
func New(leads LeadStore, matcher AgentMatcher, audit AuditRecorder, notifier Notifier) *Service {
	return &Service{
		leads:    leads,
		matcher:  matcher,
		audit:    audit,
		notifier: notifier,
	}
}

// Result is returned to the UI after a successful submission
type Result struct {
	LeadID  core.LeadID   `json:"lead_id"`
	Agent   *match.Result `json:"agent,omitempty"` // nil when unassigned
	Summary string        `json:"summary"`
}

// Submit runs the full handoff pipeline: summary, agent match, lead insert,
// audit event. The session must belong to a signed-in user; unauthenticated
// calls fail before any persistence happens. A failed lead insert aborts the
// whole operation; a failed audit append is logged but does not undo the
// already-created lead.
//
// Submissions are not idempotent: identical forms create independent leads.
func (s *Service) Submit(sess core.Session, form Form, hctx core.HandoffContext) (*Result, error) {
	if !sess.Authenticated() {
		return nil, core.ErrAuthRequired
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	// Summary and matching are pure reads; nothing is committed until the
	// lead insert below.
	summary := intent.BuildSummary(summaryInput(form, hctx))

	agent := s.matcher.Match(criteriaFrom(hctx))

	lead := &core.Lead{
		ID:       core.LeadID(uuid.New().String()),
		UserID:   sess.UserID,
		Type:     form.LeadType,
		Status:   core.LeadStatusNew,
		Priority: priorityFrom(hctx.Confidence),
		Notes:    form.Message,
		Summary:  summary,
	}
	if hctx.Property != nil {
		lead.PropertyID = hctx.Property.ID
	}
	if len(hctx.Shortlist) > 0 {
		lead.ShortlistedPropertyIDs = hctx.Shortlist
	}
	if agent != nil {
		lead.AssignedAgentID = agent.AgentID
	}

	if err := s.leads.Create(lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	if err := s.audit.RecordHandoffCreated(sess.UserID, lead, hctx.Confidence, lead.AssignedAgentID); err != nil {
		// The lead stands even without its audit entry
		logging.WithFields(map[string]interface{}{
			"lead_id": lead.ID,
			"error":   err,
		}).Error("audit append failed after lead creation")
	}

	if s.notifier != nil {
		s.notifier.LeadCreated(lead)
	}

	return &Result{
		LeadID:  lead.ID,
		Agent:   agent,
		Summary: summary,
	}, nil
}

// UpdateStatus applies an operator-driven lifecycle transition, validating
// the state machine before touching storage.
func (s *Service) UpdateStatus(sess core.Session, id core.LeadID, next core.LeadStatus) (*core.Lead, error) {
	if !sess.Authenticated() {
		return nil, core.ErrAuthRequired
	}

	lead, err := s.leads.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !lead.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", core.ErrInvalidTransition, lead.Status, next)
	}

	if err := s.leads.UpdateStatus(id, next); err != nil {
		return nil, fmt.Errorf("update lead status: %w", err)
	}

	if err := s.audit.RecordLeadStatusChanged(sess.UserID, id, lead.Status, next); err != nil {
		logging.WithFields(map[string]interface{}{
			"lead_id": id,
			"error":   err,
		}).Error("audit append failed for status change")
	}

	lead.Status = next

	if s.notifier != nil {
		s.notifier.LeadUpdated(lead)
	}

	return lead, nil
}

// priorityFrom derives triage priority from the advisor's confidence score:
// high when the advisor was unsure, medium otherwise.
func priorityFrom(confidence *float64) core.LeadPriority {
	if confidence != nil && *confidence < 0.5 {
		return core.PriorityHigh
	}
	return core.PriorityMedium
}

// criteriaFrom derives match criteria from the handoff context. The selected
// property is the strongest signal; without one the conversation's first
// recognized location stands in.
func criteriaFrom(hctx core.HandoffContext) match.Criteria {
	if hctx.Property != nil {
		return match.Criteria{
			Location:     hctx.Property.City,
			PropertyType: hctx.Property.PropertyType,
			Area:         hctx.Property.Area,
		}
	}

	var text string
	for _, msg := range hctx.Conversation {
		if msg.Role == core.RoleUser {
			text += msg.Content + "\n"
		}
	}
	sig := intent.ExtractSignals(text)

	criteria := match.Criteria{}
	if len(sig.Locations) > 0 {
		criteria.Location = sig.Locations[0]
	}
	return criteria
}

func summaryInput(form Form, hctx core.HandoffContext) intent.SummaryInput {
	return intent.SummaryInput{
		Conversation:    hctx.Conversation,
		LeadType:        form.LeadType,
		FinancingNeeded: form.FinancingNeeded,
		Property:        hctx.Property,
		ShortlistCount:  len(hctx.Shortlist),
		Confidence:      hctx.Confidence,
	}
}
