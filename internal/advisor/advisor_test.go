package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/intent"
	"github.com/estateflow/estateflow/internal/llm"
)

func TestRole_Valid(t *testing.T) {
	for _, role := range []Role{RoleBuyer, RoleInvestor, RoleMortgage} {
		if !role.Valid() {
			t.Errorf("%q should be a valid role", role)
		}
	}
	if Role("therapist").Valid() {
		t.Error("unknown role should not be valid")
	}
}

func TestAdvisor_Stream_InvalidRole(t *testing.T) {
	a := New(llm.NewClient(llm.Config{APIKey: "k"}))

	_, _, err := a.Stream(context.Background(), "therapist", nil)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("Stream() error = %v, want ErrInvalidInput", err)
	}
}

func TestAdvisor_Stream_Unconfigured(t *testing.T) {
	a := New(llm.NewClient(llm.Config{}))

	_, _, err := a.Stream(context.Background(), RoleBuyer, nil)
	if !errors.Is(err, core.ErrLLMUnavailable) {
		t.Errorf("Stream() error = %v, want ErrLLMUnavailable", err)
	}
}

func TestSuggestHandoff(t *testing.T) {
	conf := func(v float64) *float64 { return &v }

	tests := []struct {
		name       string
		message    string
		confidence *float64
		want       Suggestion
	}{
		{
			"no signals",
			"tell me about the area",
			conf(0.9),
			Suggestion{},
		},
		{
			"keyword trigger",
			"can I schedule a visit?",
			conf(0.9),
			Suggestion{Reason: intent.ReasonSiteVisit, Suggested: true},
		},
		{
			"low confidence alone",
			"tell me about the area",
			conf(0.3),
			Suggestion{LowConfidence: true, Suggested: true},
		},
		{
			"both signals co-occur",
			"I want to negotiate",
			conf(0.3),
			Suggestion{Reason: intent.ReasonNegotiation, LowConfidence: true, Suggested: true},
		},
		{
			"no confidence supplied",
			"what about the mortgage?",
			nil,
			Suggestion{Reason: intent.ReasonFinancing, Suggested: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestHandoff(tt.message, tt.confidence)
			if got != tt.want {
				t.Errorf("SuggestHandoff() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
