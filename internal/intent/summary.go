package intent

import (
	"fmt"
	"strings"

	"github.com/estateflow/estateflow/internal/core"
)

// SummaryInput carries everything the summary builder may use. Only the
// conversation is required; the rest comes from the submitted form and the
// handoff context when present.
type SummaryInput struct {
	Conversation    []core.ChatMessage
	LeadType        core.LeadType // explicit form lead type, "" to infer from text
	FinancingNeeded bool          // form flag; unset leaves the line to text inference
	Property        *core.Property
	ShortlistCount  int
	Confidence      *float64 // 0-1
}

// leadTypeIntents is the fixed mapping from an explicit lead type to the
// intent label. When the form names a type, conversation content is ignored
// for the intent line.
var leadTypeIntents = map[core.LeadType]string{
	core.LeadTypeViewing:          IntentSiteVisit,
	core.LeadTypeMortgage:         IntentFinancing,
	core.LeadTypeDeveloperInquiry: "Developer project inquiry",
	core.LeadTypeAgentHelp:        "General agent assistance",
}

// Financing label used when the form explicitly requests assistance
const FinancingRequested = "Yes - requires financing assistance"

// BuildSummary renders the structured handoff summary: fixed labeled sections
// in a fixed order, with fallback placeholders where no signal was found.
// Only user turns feed signal extraction; assistant turns are advisory output
// and would pollute the signals.
func BuildSummary(in SummaryInput) string {
	text := userText(in.Conversation)
	sig := ExtractSignals(text)

	var b strings.Builder

	b.WriteString("User Intent: " + intentLabel(in, sig) + "\n")
	b.WriteString("Budget: " + orFallback(sig.Budget, "Not specified") + "\n")
	b.WriteString("Preferred Location: " + locationLine(in, sig) + "\n")

	if in.Property != nil {
		b.WriteString("Selected Property: " + propertyLabel(in.Property) + "\n")
	}
	if in.ShortlistCount > 0 {
		fmt.Fprintf(&b, "Shortlisted Properties: %d\n", in.ShortlistCount)
	}

	b.WriteString("Financing Needs: " + financingLabel(in, sig) + "\n")

	if len(sig.RiskFlags) > 0 {
		b.WriteString("Risk Flags:\n")
		for _, flag := range sig.RiskFlags {
			b.WriteString("- " + flag + "\n")
		}
	}

	b.WriteString("Recommended Next Steps:\n")
	for i, step := range nextSteps(in, sig) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	if in.Confidence != nil {
		fmt.Fprintf(&b, "AI Confidence Score: %.2f\n", *in.Confidence)
	}

	return strings.TrimRight(b.String(), "\n")
}

// userText concatenates user turns only
func userText(conversation []core.ChatMessage) string {
	var parts []string
	for _, msg := range conversation {
		if msg.Role == core.RoleUser {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n")
}

func intentLabel(in SummaryInput, sig Signals) string {
	if label, ok := leadTypeIntents[in.LeadType]; ok {
		return label
	}
	if sig.Intent != "" {
		return sig.Intent
	}
	return IntentDefault
}

func locationLine(in SummaryInput, sig Signals) string {
	var locations []string
	seen := make(map[string]bool)

	add := func(loc string) {
		key := strings.ToLower(strings.TrimSpace(loc))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		locations = append(locations, strings.TrimSpace(loc))
	}

	// The selected property's own location leads the list
	if in.Property != nil {
		add(in.Property.Location)
	}
	for _, loc := range sig.Locations {
		add(loc)
	}

	if len(locations) == 0 {
		return "Not specified"
	}
	return strings.Join(locations, ", ")
}

func propertyLabel(p *core.Property) string {
	if p.Location != "" {
		return fmt.Sprintf("%s (%s)", p.Title, p.Location)
	}
	return p.Title
}

func financingLabel(in SummaryInput, sig Signals) string {
	// An explicit form request wins over anything inferred from text; an
	// unchecked box still lets the conversation speak.
	if in.FinancingNeeded {
		return FinancingRequested
	}
	if sig.Financing != "" {
		return sig.Financing
	}
	return "Not discussed"
}

// nextSteps assembles the recommended actions in fixed order, conditional on
// signals already computed, with the two standing steps always appended last.
func nextSteps(in SummaryInput, sig Signals) []string {
	intent := intentLabel(in, sig)
	financing := financingLabel(in, sig)

	var steps []string

	if intent == IntentSiteVisit {
		steps = append(steps, "Schedule property site visit")
	}
	if intent == IntentNegotiation {
		steps = append(steps, "Prepare negotiation strategy with comparable listings")
	}
	if needsFinancingStep(financing) {
		steps = append(steps, "Connect with mortgage partner for financing options")
	}
	if hasLegalFlag(sig) || intent == IntentLegal {
		steps = append(steps, "Verify legal documentation")
	}

	steps = append(steps,
		"Assign dedicated agent",
		"Follow up within 24 hours",
	)

	return steps
}

func needsFinancingStep(financing string) bool {
	switch financing {
	case FinancingRequested, FinancingMortgage, FinancingInstallment,
		FinancingPreApproval, FinancingIslamic:
		return true
	}
	return false
}

func hasLegalFlag(sig Signals) bool {
	for _, flag := range sig.RiskFlags {
		if strings.HasPrefix(flag, "Legal") {
			return true
		}
	}
	return false
}

func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
