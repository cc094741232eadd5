// Package advisor runs the role-based AI chat advisors and decides when a
// conversation should be offered a human handoff.
package advisor

import (
	"context"
	"fmt"

	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/intent"
	"github.com/estateflow/estateflow/internal/llm"
)

// Role selects which advisor persona answers
type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleInvestor Role = "investor"
	RoleMortgage Role = "mortgage"
)

// Valid reports whether r is a known advisor role
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleInvestor, RoleMortgage:
		return true
	}
	return false
}

var systemPrompts = map[Role]string{
	RoleBuyer: `You are a real-estate buying advisor. Help the user clarify
what they want to buy, where, and within what budget. Be concrete and
neutral; when a question needs a human agent (site visits, negotiations,
legal paperwork), say so plainly.`,

	RoleInvestor: `You are a real-estate investment advisor. Focus on rental
yield, capital appreciation, and area trends. Flag risks honestly. Recommend
talking to a human agent before any commitment.`,

	RoleMortgage: `You are a mortgage and financing advisor. Explain financing
options, installment plans, and pre-approval steps in plain language. You do
not give binding quotes; direct the user to a mortgage partner for those.`,
}

// Suggestion tells the chat UI whether to surface a handoff prompt in-line
type Suggestion struct {
	Reason        intent.Reason `json:"reason,omitempty"`
	LowConfidence bool          `json:"low_confidence"`
	Suggested     bool          `json:"suggested"`
}

// Advisor streams chat completions for a persona
type Advisor struct {
	llm *llm.Client
}

// New creates an advisor over the given chat client
func New(client *llm.Client) *Advisor {
	return &Advisor{llm: client}
}

// Stream relays the conversation to the completion service under the role's
// system prompt and returns the delta stream.
func (a *Advisor) Stream(ctx context.Context, role Role, conversation []core.ChatMessage) (<-chan string, <-chan error, error) {
	if !role.Valid() {
		return nil, nil, fmt.Errorf("%w: advisor role %q", core.ErrInvalidInput, role)
	}
	if !a.llm.IsConfigured() {
		return nil, nil, core.ErrLLMUnavailable
	}

	messages := make([]llm.Message, 0, len(conversation))
	for _, msg := range conversation {
		messages = append(messages, llm.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	contentChan, errChan := a.llm.Stream(ctx, systemPrompts[role], messages)
	return contentChan, errChan, nil
}

// SuggestHandoff classifies the latest user message and the advisor's own
// confidence. Keyword triggers and the low-confidence signal are independent
// and can co-occur.
func SuggestHandoff(message string, confidence *float64) Suggestion {
	s := Suggestion{}

	if reason, ok := intent.ClassifyTrigger(message); ok {
		s.Reason = reason
		s.Suggested = true
	}
	if intent.LowConfidence(confidence) {
		s.LowConfidence = true
		s.Suggested = true
	}

	return s
}
