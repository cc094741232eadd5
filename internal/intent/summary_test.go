package intent

import (
	"strings"
	"testing"

	"github.com/estateflow/estateflow/internal/core"
)

func userMsg(content string) core.ChatMessage {
	return core.ChatMessage{Role: core.RoleUser, Content: content}
}

func TestBuildSummary_Defaults(t *testing.T) {
	summary := BuildSummary(SummaryInput{})

	wantLines := []string{
		"User Intent: Property inquiry",
		"Budget: Not specified",
		"Preferred Location: Not specified",
		"Financing Needs: Not discussed",
		"Recommended Next Steps:",
		"1. Assign dedicated agent",
		"2. Follow up within 24 hours",
	}
	for _, line := range wantLines {
		if !strings.Contains(summary, line) {
			t.Errorf("summary missing %q\n%s", line, summary)
		}
	}
	if strings.Contains(summary, "AI Confidence Score") {
		t.Error("summary should omit confidence line when no score given")
	}
	if strings.Contains(summary, "Risk Flags") {
		t.Error("summary should omit risk section when no flags found")
	}
}

func TestBuildSummary_FullConversation(t *testing.T) {
	conf := 0.8
	in := SummaryInput{
		Conversation: []core.ChatMessage{
			userMsg("I want to buy a house in DHA, my budget is around 50 lac"),
			{Role: core.RoleAssistant, Content: "DHA has good options in that range."},
			userMsg("I will need a mortgage for it"),
		},
		LeadType: core.LeadTypeViewing,
		Property: &core.Property{
			Title:    "3 Bed Villa",
			Location: "DHA Phase 6, Karachi",
		},
		ShortlistCount: 3,
		Confidence:     &conf,
	}

	summary := BuildSummary(in)

	wantLines := []string{
		"User Intent: Property site visit request",
		"Budget: 50 lac",
		"Preferred Location: DHA Phase 6, Karachi, DHA",
		"Selected Property: 3 Bed Villa (DHA Phase 6, Karachi)",
		"Shortlisted Properties: 3",
		"Financing Needs: " + FinancingMortgage,
		"1. Schedule property site visit",
		"2. Connect with mortgage partner for financing options",
		"3. Assign dedicated agent",
		"4. Follow up within 24 hours",
		"AI Confidence Score: 0.80",
	}
	for _, line := range wantLines {
		if !strings.Contains(summary, line) {
			t.Errorf("summary missing %q\n%s", line, summary)
		}
	}
}

func TestBuildSummary_ExplicitLeadTypeWinsOverText(t *testing.T) {
	in := SummaryInput{
		Conversation: []core.ChatMessage{userMsg("I want to invest for rental yield")},
		LeadType:     core.LeadTypeMortgage,
	}

	summary := BuildSummary(in)
	if !strings.Contains(summary, "User Intent: "+IntentFinancing) {
		t.Errorf("explicit lead type should set the intent line\n%s", summary)
	}
}

func TestBuildSummary_FormFinancingFlagWins(t *testing.T) {
	in := SummaryInput{
		Conversation:    []core.ChatMessage{userMsg("I will pay cash")},
		FinancingNeeded: true,
	}

	summary := BuildSummary(in)
	if !strings.Contains(summary, "Financing Needs: "+FinancingRequested) {
		t.Errorf("form flag should override text inference\n%s", summary)
	}
	if !strings.Contains(summary, "Connect with mortgage partner") {
		t.Errorf("requested financing should add the mortgage step\n%s", summary)
	}
}

func TestBuildSummary_UncheckedFlagLetsTextSpeak(t *testing.T) {
	in := SummaryInput{
		Conversation: []core.ChatMessage{userMsg("I will need a mortgage for this")},
	}

	summary := BuildSummary(in)
	if !strings.Contains(summary, "Financing Needs: "+FinancingMortgage) {
		t.Errorf("unset flag should fall back to text inference\n%s", summary)
	}

	in.Conversation = []core.ChatMessage{userMsg("I will pay cash upfront")}
	summary = BuildSummary(in)
	if !strings.Contains(summary, "Financing Needs: "+FinancingCash) {
		t.Errorf("unset flag should fall back to text inference\n%s", summary)
	}
	if strings.Contains(summary, "Connect with mortgage partner") {
		t.Errorf("cash buyer should not get the mortgage step\n%s", summary)
	}
}

func TestBuildSummary_AssistantTurnsIgnored(t *testing.T) {
	in := SummaryInput{
		Conversation: []core.ChatMessage{
			{Role: core.RoleAssistant, Content: "Have you considered a mortgage in Clifton?"},
			userMsg("not sure yet"),
		},
	}

	summary := BuildSummary(in)
	if !strings.Contains(summary, "Financing Needs: Not discussed") {
		t.Errorf("assistant turns must not feed signal extraction\n%s", summary)
	}
	if !strings.Contains(summary, "Preferred Location: Not specified") {
		t.Errorf("assistant turns must not feed location extraction\n%s", summary)
	}
}

func TestBuildSummary_RiskFlagsAndLegalStep(t *testing.T) {
	in := SummaryInput{
		Conversation: []core.ChatMessage{
			userMsg("I need the title deed checked before anything"),
		},
	}

	summary := BuildSummary(in)
	if !strings.Contains(summary, "Risk Flags:\n- Legal/documentation verification needed") {
		t.Errorf("summary missing legal risk flag\n%s", summary)
	}
	if !strings.Contains(summary, "1. Verify legal documentation") {
		t.Errorf("legal flag should add verification step first\n%s", summary)
	}
}

func TestBuildSummary_NegotiationStep(t *testing.T) {
	in := SummaryInput{
		Conversation: []core.ChatMessage{
			userMsg("can you help me negotiate this down"),
		},
	}

	summary := BuildSummary(in)
	if !strings.Contains(summary, "User Intent: "+IntentNegotiation) {
		t.Errorf("summary missing negotiation intent\n%s", summary)
	}
	if !strings.Contains(summary, "1. Prepare negotiation strategy with comparable listings") {
		t.Errorf("summary missing negotiation step\n%s", summary)
	}
}
