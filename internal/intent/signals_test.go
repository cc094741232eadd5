package intent

import (
	"reflect"
	"testing"
)

func TestExtractSignals_Empty(t *testing.T) {
	sig := ExtractSignals("hello, can you help me?")

	if sig.Intent != "" {
		t.Errorf("Intent = %q, want empty", sig.Intent)
	}
	if sig.Budget != "" {
		t.Errorf("Budget = %q, want empty", sig.Budget)
	}
	if len(sig.Locations) != 0 {
		t.Errorf("Locations = %v, want none", sig.Locations)
	}
	if sig.Financing != "" {
		t.Errorf("Financing = %q, want empty", sig.Financing)
	}
	if len(sig.RiskFlags) != 0 {
		t.Errorf("RiskFlags = %v, want none", sig.RiskFlags)
	}
}

func TestExtractSignals_IntentPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"investment beats buy", "I want to buy an investment property", IntentInvestment},
		{"roi", "what kind of roi can I expect", IntentInvestment},
		{"buy beats viewing", "I want to buy after a viewing", IntentHomeBuy},
		{"site visit", "can I arrange a visit", IntentSiteVisit},
		{"negotiation stem", "help me negotiate the price", IntentNegotiation},
		{"financing", "do you offer mortgage advice", IntentFinancing},
		{"legal", "I need help with documentation", IntentLegal},
		{"no match", "tell me about the weather", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := ExtractSignals(tt.text)
			if sig.Intent != tt.want {
				t.Errorf("Intent = %q, want %q", sig.Intent, tt.want)
			}
		})
	}
}

func TestExtractSignals_Budget(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"currency range", "somewhere between PKR 50 lakh to PKR 80 lakh", "pkr 50 lakh to pkr 80 lakh"},
		{"bare lakh range", "I can go 50 lakh to 1.5 crore", "50 lakh to 1.5 crore"},
		{"single amount after budget", "my budget is around 50 lac", "50 lac"},
		{"single amount after spend", "I can spend 2 crore on this", "2 crore"},
		{"afford", "we can afford 90 lakh comfortably", "90 lakh"},
		{"no budget", "looking for something nice", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := ExtractSignals(tt.text)
			if sig.Budget != tt.want {
				t.Errorf("Budget = %q, want %q", sig.Budget, tt.want)
			}
		})
	}
}

func TestExtractSignals_Locations(t *testing.T) {
	sig := ExtractSignals("looking at dha in karachi, maybe dubai marina too")

	want := []string{"DHA", "Dubai Marina", "Karachi", "Dubai"}
	if !reflect.DeepEqual(sig.Locations, want) {
		t.Errorf("Locations = %v, want %v", sig.Locations, want)
	}
}

func TestExtractSignals_LocationsDeduped(t *testing.T) {
	sig := ExtractSignals("DHA or dha or even DHA again")

	want := []string{"DHA"}
	if !reflect.DeepEqual(sig.Locations, want) {
		t.Errorf("Locations = %v, want %v", sig.Locations, want)
	}
}

func TestExtractSignals_Financing(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"cash only", "I will pay cash", FinancingCash},
		{"cash with mortgage loses", "not sure if cash or mortgage", FinancingMortgage},
		{"home loan", "I need a home loan", FinancingMortgage},
		{"installment", "can I pay in installments", FinancingInstallment},
		{"emi", "what would the emi be", FinancingInstallment},
		{"pre-approval", "I want to get pre-approved first", FinancingPreApproval},
		{"islamic", "only shariah compliant options please", FinancingIslamic},
		{"not discussed", "just browsing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := ExtractSignals(tt.text)
			if sig.Financing != tt.want {
				t.Errorf("Financing = %q, want %q", sig.Financing, tt.want)
			}
		})
	}
}

func TestExtractSignals_RiskFlags(t *testing.T) {
	sig := ExtractSignals("first time buyer here, worried this could be a scam, need it urgent")

	want := []string{
		"Developer credibility concern",
		"First-time buyer",
		"Urgent timeline",
	}
	if !reflect.DeepEqual(sig.RiskFlags, want) {
		t.Errorf("RiskFlags = %v, want %v", sig.RiskFlags, want)
	}
}

func TestExtractSignals_RiskFlagOncePerRule(t *testing.T) {
	sig := ExtractSignals("scam fraud unreliable, is this credible")

	want := []string{"Developer credibility concern"}
	if !reflect.DeepEqual(sig.RiskFlags, want) {
		t.Errorf("RiskFlags = %v, want %v", sig.RiskFlags, want)
	}
}

func TestExtractSignals_CaseInsensitive(t *testing.T) {
	sig := ExtractSignals("LOOKING TO INVEST IN CLIFTON, MORTGAGE NEEDED URGENTLY")

	if sig.Intent != IntentInvestment {
		t.Errorf("Intent = %q, want %q", sig.Intent, IntentInvestment)
	}
	if !reflect.DeepEqual(sig.Locations, []string{"Clifton"}) {
		t.Errorf("Locations = %v, want [Clifton]", sig.Locations)
	}
	if sig.Financing != FinancingMortgage {
		t.Errorf("Financing = %q, want %q", sig.Financing, FinancingMortgage)
	}
}
