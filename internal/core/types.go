// Package core defines the fundamental types for EstateFlow.
package core

import (
	"time"
)

// -----------------------------------------------------------------------------
// LEAD - A request for human assistance
// -----------------------------------------------------------------------------

// LeadID is a type-safe identifier for leads
type LeadID string

// LeadType represents what kind of assistance the user asked for
type LeadType string

const (
	LeadTypeViewing          LeadType = "viewing"
	LeadTypeAgentHelp        LeadType = "agent_help"
	LeadTypeMortgage         LeadType = "mortgage"
	LeadTypeDeveloperInquiry LeadType = "developer_inquiry"
)

// Valid reports whether lt is a known lead type
func (lt LeadType) Valid() bool {
	switch lt {
	case LeadTypeViewing, LeadTypeAgentHelp, LeadTypeMortgage, LeadTypeDeveloperInquiry:
		return true
	}
	return false
}

// LeadStatus represents the lifecycle state of a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusScheduled LeadStatus = "scheduled"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
	LeadStatusClosed    LeadStatus = "closed"
)

// Terminal reports whether no further transitions are allowed from s
func (s LeadStatus) Terminal() bool {
	return s == LeadStatusLost || s == LeadStatusClosed
}

// CanTransitionTo reports whether the operator-driven state machine allows
// moving from s to next. Forward progression is strict; lost and closed are
// reachable from any non-terminal state.
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == LeadStatusLost || next == LeadStatusClosed {
		return true
	}
	switch s {
	case LeadStatusNew:
		return next == LeadStatusContacted
	case LeadStatusContacted:
		return next == LeadStatusScheduled
	case LeadStatusScheduled:
		return next == LeadStatusQualified
	}
	return false
}

// LeadPriority is the triage urgency attached at creation time
type LeadPriority string

const (
	PriorityLow    LeadPriority = "low"
	PriorityMedium LeadPriority = "medium"
	PriorityHigh   LeadPriority = "high"
)

// Lead is a persisted request for human assistance.
// Created by the handoff pipeline in status "new"; all later transitions are
// operator actions in the agent workspace.
type Lead struct {
	ID     LeadID     `json:"id"`
	UserID string     `json:"user_id"`
	Type   LeadType   `json:"lead_type"`
	Status LeadStatus `json:"status"`

	Priority LeadPriority `json:"priority"`

	// Optional references
	PropertyID      PropertyID `json:"property_id,omitempty"`
	AssignedAgentID AgentID    `json:"assigned_agent_id,omitempty"`

	// Shortlisted properties carried over from the conversation, stored as a
	// structured column rather than JSON smuggled inside notes.
	ShortlistedPropertyIDs []PropertyID `json:"shortlisted_property_ids,omitempty"`

	Notes   string `json:"notes"`
	Summary string `json:"summary"` // AI-generated structured summary

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// AGENT - A service provider eligible for lead assignment
// -----------------------------------------------------------------------------

// AgentID is a type-safe identifier for agents
type AgentID string

// Agent represents a human real-estate agent. Only verified agents are ever
// considered by the matcher.
type Agent struct {
	ID     AgentID `json:"id"`
	UserID string  `json:"user_id"`

	AgencyName      string   `json:"agency_name"`
	AreasServed     []string `json:"areas_served"`
	Specializations []string `json:"specializations"`

	Verified    bool     `json:"verified"`
	Rating      *float64 `json:"rating,omitempty"` // 0-5, unset until first review
	ReviewCount int      `json:"review_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingOrZero returns the agent's rating, or 0 when unrated
func (a *Agent) RatingOrZero() float64 {
	if a.Rating == nil {
		return 0
	}
	return *a.Rating
}

// -----------------------------------------------------------------------------
// PROPERTY - A listing referenced by leads and conversations
// -----------------------------------------------------------------------------

// PropertyID is a type-safe identifier for properties
type PropertyID string

// Property is the slice of a listing the handoff pipeline reads: enough to
// derive match criteria and label the summary.
type Property struct {
	ID           PropertyID `json:"id"`
	Title        string     `json:"title"`
	Location     string     `json:"location"`
	City         string     `json:"city"`
	Area         string     `json:"area"`
	PropertyType string     `json:"property_type"`
	Price        float64    `json:"price"`
	CreatedAt    time.Time  `json:"created_at"`
}

// -----------------------------------------------------------------------------
// PROFILE - Read model of the externally-owned user record
// -----------------------------------------------------------------------------

// Profile is the minimal projection of a user this service needs: display
// names for matched agents, contact details for leads.
type Profile struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"` // buyer, investor, agent, admin, ...
	CreatedAt time.Time `json:"created_at"`
}

// -----------------------------------------------------------------------------
// SESSION - Explicitly passed caller identity
// -----------------------------------------------------------------------------

// Session carries the authenticated caller through the pipeline. It is always
// passed by value into services; there is no ambient global.
type Session struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Authenticated reports whether the session belongs to a signed-in user
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// -----------------------------------------------------------------------------
// CONVERSATION - The chat transcript shape shared with the AI service
// -----------------------------------------------------------------------------

// ChatRole is the author of a conversation turn
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of an advisor conversation. The same {role, content}
// shape flows to the chat-completion service and into signal extraction.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// HandoffContext is the transient aggregate passed by value into a single
// handoff operation. It is never persisted as its own entity.
type HandoffContext struct {
	Conversation []ChatMessage `json:"conversation"`
	Property     *Property     `json:"property,omitempty"`
	Shortlist    []PropertyID  `json:"shortlist,omitempty"`
	Confidence   *float64      `json:"confidence,omitempty"` // 0-1
}

// PreferredChannel is how the user wants to be contacted
type PreferredChannel string

const (
	ChannelPhone    PreferredChannel = "phone"
	ChannelWhatsApp PreferredChannel = "whatsapp"
	ChannelEmail    PreferredChannel = "email"
)

// Valid reports whether c is a known contact channel
func (c PreferredChannel) Valid() bool {
	switch c {
	case ChannelPhone, ChannelWhatsApp, ChannelEmail:
		return true
	}
	return false
}
