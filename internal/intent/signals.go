// Package intent derives structured signals from free-text buyer
// conversations. The extraction is deliberately heuristic keyword/regex
// matching behind a narrow interface, so it can be swapped for a model-based
// extractor without touching the handoff orchestration.
package intent

import (
	"regexp"
	"strings"
)

// Signals is the structured result of scanning conversation text.
// Empty fields mean the signal was not found, never an error.
type Signals struct {
	Intent    string   // inferred purpose label, "" when nothing matched
	Budget    string   // matched budget phrase, "" when not found
	Locations []string // recognized cities/areas, canonical casing
	Financing string   // inferred financing preference, "" when not discussed
	RiskFlags []string // all matching risk flags, declaration order
}

// Intent labels
const (
	IntentInvestment  = "Investment opportunity assessment"
	IntentHomeBuy     = "Home purchase assistance"
	IntentSiteVisit   = "Property site visit request"
	IntentNegotiation = "Price negotiation support"
	IntentFinancing   = "Mortgage/financing consultation"
	IntentLegal       = "Legal and documentation assistance"
	IntentDefault     = "Property inquiry"
)

// Financing labels
const (
	FinancingCash        = "Cash purchase - no financing needed"
	FinancingMortgage    = "Requires mortgage financing"
	FinancingInstallment = "Prefers installment/EMI plan"
	FinancingPreApproval = "Seeking mortgage pre-approval"
	FinancingIslamic     = "Prefers Islamic/Shariah-compliant financing"
)

// intentRules are checked in priority order; first match wins.
var intentRules = []struct {
	label    string
	keywords []string
}{
	{IntentInvestment, []string{"invest", "roi", "yield"}},
	{IntentHomeBuy, []string{"buy", "purchase", "home"}},
	{IntentSiteVisit, []string{"viewing", "visit"}},
	{IntentNegotiation, []string{"negotiat"}},
	{IntentFinancing, []string{"mortgage", "loan", "financing"}},
	{IntentLegal, []string{"legal", "documentation"}},
}

// Budget patterns tried in order: a range with a currency prefix, a
// lakh/crore range without one, then a single amount near a trigger word.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:pkr|rs\.?|usd|\$)\s*[\d,]+(?:\.\d+)?\s*(?:lakh|lacs?|crores?|million|m|k)?\s*(?:-|–|to)\s*(?:pkr|rs\.?|usd|\$)?\s*[\d,]+(?:\.\d+)?\s*(?:lakh|lacs?|crores?|million|m|k)?`),
	regexp.MustCompile(`[\d,]+(?:\.\d+)?\s*(?:lakh|lacs?|crores?)\s*(?:-|–|to)\s*[\d,]+(?:\.\d+)?\s*(?:lakh|lacs?|crores?)`),
	regexp.MustCompile(`(?:budget|afford|spend)\w*\W+(?:\w+\W+){0,4}?((?:pkr|rs\.?|usd|\$)?\s*[\d,]+(?:\.\d+)?\s*(?:lakh|lacs?|crores?|million|m|k)?)`),
}

var budgetTriggerWords = regexp.MustCompile(`\b(?:budget|afford\w*|spend\w*)\b`)

// knownCities and knownAreas are the fixed location vocabularies. Matching is
// case-insensitive substring; the canonical casing below is what surfaces in
// the summary.
var knownCities = []string{
	"Karachi", "Lahore", "Islamabad", "Rawalpindi", "Multan",
	"Faisalabad", "Peshawar", "Quetta", "Hyderabad", "Dubai",
}

var knownAreas = []string{
	"DHA", "Bahria Town", "Gulberg", "Clifton", "Johar Town",
	"Model Town", "Gulshan", "F-7", "F-10", "E-11", "G-13",
	"Dubai Marina", "Downtown", "Jumeirah", "Business Bay",
}

// riskRules are all checked independently; every match is reported.
var riskRules = []struct {
	flag     string
	keywords []string
}{
	{"Concerned about construction delays", []string{"construction delay", "delayed", "delay in"}},
	{"Developer credibility concern", []string{"developer trust", "credib", "scam", "fraud", "reliable developer"}},
	{"Legal/documentation verification needed", []string{"legal", "documentation", "title deed", "noc", "transfer"}},
	{"Market volatility concern", []string{"market crash", "prices fall", "volatil", "bubble", "market down"}},
	{"First-time buyer", []string{"first time", "first-time", "never bought"}},
	{"Urgent timeline", []string{"urgent", "asap", "immediately", "as soon as possible"}},
}

// ExtractSignals scans free text for budget, location, financing, risk, and
// intent signals. Pure function: case-insensitive over the input, no I/O.
func ExtractSignals(text string) Signals {
	lower := strings.ToLower(text)

	return Signals{
		Intent:    extractIntent(lower),
		Budget:    extractBudget(lower),
		Locations: extractLocations(lower),
		Financing: extractFinancing(lower),
		RiskFlags: extractRiskFlags(lower),
	}
}

func extractIntent(lower string) string {
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.label
			}
		}
	}
	return ""
}

func extractBudget(lower string) string {
	for i, pattern := range budgetPatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		matched := m[0]
		if i == 2 && len(m) > 1 {
			// The single-amount pattern captures just the amount, without
			// the trigger word and filler.
			matched = m[1]
		}
		matched = budgetTriggerWords.ReplaceAllString(matched, "")
		return strings.TrimSpace(matched)
	}
	return ""
}

func extractLocations(lower string) []string {
	var found []string
	seen := make(map[string]bool)

	for _, loc := range append(append([]string{}, knownAreas...), knownCities...) {
		key := strings.ToLower(loc)
		if seen[key] {
			continue
		}
		if strings.Contains(lower, key) {
			found = append(found, loc)
			seen[key] = true
		}
	}

	return found
}

func extractFinancing(lower string) string {
	switch {
	case strings.Contains(lower, "cash") && !strings.Contains(lower, "mortgage"):
		return FinancingCash
	case strings.Contains(lower, "mortgage"),
		strings.Contains(lower, "home loan"),
		strings.Contains(lower, "bank loan"):
		return FinancingMortgage
	case strings.Contains(lower, "emi"), strings.Contains(lower, "installment"):
		return FinancingInstallment
	case strings.Contains(lower, "pre-approv"), strings.Contains(lower, "preapprov"):
		return FinancingPreApproval
	case strings.Contains(lower, "islamic"), strings.Contains(lower, "shariah"):
		return FinancingIslamic
	}
	return ""
}

func extractRiskFlags(lower string) []string {
	var flags []string
	for _, rule := range riskRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				flags = append(flags, rule.flag)
				break
			}
		}
	}
	return flags
}
