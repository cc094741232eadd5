package intent

import "strings"

// Reason tags why a conversation should be handed to a human agent
type Reason string

const (
	ReasonSiteVisit   Reason = "site_visit"
	ReasonNegotiation Reason = "negotiation"
	ReasonLegal       Reason = "legal"
	ReasonFinancing   Reason = "financing"
)

// triggerRules map reasons to their keyword lists. Declaration order is the
// match order: the first reason with any keyword present wins, no scoring.
var triggerRules = []struct {
	reason   Reason
	keywords []string
}{
	{ReasonSiteVisit, []string{
		"site visit", "visit the property", "see the property",
		"viewing", "schedule a visit", "property tour", "in person",
	}},
	{ReasonNegotiation, []string{
		"negotiate", "negotiation", "lower the price", "discount",
		"best price", "final price", "make an offer",
	}},
	{ReasonLegal, []string{
		"legal", "documentation", "documents", "title deed",
		"noc", "stamp duty", "transfer process",
	}},
	{ReasonFinancing, []string{
		"mortgage", "loan", "financing", "installment", "emi", "bank",
	}},
}

// ClassifyTrigger maps a single user message to a handoff reason. The chat
// UI uses it to decide whether to surface a handoff prompt in-line; the
// summary builder's next-step logic is independent of it.
func ClassifyTrigger(message string) (Reason, bool) {
	lower := strings.ToLower(message)

	for _, rule := range triggerRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reason, true
			}
		}
	}

	return "", false
}

// LowConfidenceThreshold is the score below which the advisor should offer a
// human handoff regardless of keyword triggers.
const LowConfidenceThreshold = 0.65

// LowConfidence reports whether a supplied confidence score signals a
// handoff. Evaluated independently of keyword matching; both can fire.
func LowConfidence(score *float64) bool {
	return score != nil && *score < LowConfidenceThreshold
}
