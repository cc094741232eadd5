package handoff

import (
	"errors"
	"testing"

	"github.com/estateflow/estateflow/internal/core"
)

func validForm() Form {
	return Form{
		Name:     "Ali Raza",
		Email:    "ali@example.com",
		LeadType: core.LeadTypeAgentHelp,
	}
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Form)
		wantErr error
	}{
		{"valid", func(f *Form) {}, nil},
		{"phone instead of email", func(f *Form) {
			f.Email = ""
			f.Phone = "+92 300 1234567"
		}, nil},
		{"missing name", func(f *Form) { f.Name = "" }, core.ErrMissingRequired},
		{"no contact details", func(f *Form) {
			f.Email = ""
			f.Phone = ""
		}, core.ErrMissingRequired},
		{"unknown lead type", func(f *Form) { f.LeadType = "tour" }, core.ErrInvalidInput},
		{"unknown channel", func(f *Form) { f.PreferredChannel = "fax" }, core.ErrInvalidInput},
		{"valid channel", func(f *Form) { f.PreferredChannel = core.ChannelWhatsApp }, nil},
		{"viewing without time", func(f *Form) { f.LeadType = core.LeadTypeViewing }, core.ErrMissingRequired},
		{"viewing with time", func(f *Form) {
			f.LeadType = core.LeadTypeViewing
			f.PreferredTime = "Saturday morning"
		}, nil},
		{"developer inquiry without message", func(f *Form) {
			f.LeadType = core.LeadTypeDeveloperInquiry
		}, core.ErrMissingRequired},
		{"developer inquiry with message", func(f *Form) {
			f.LeadType = core.LeadTypeDeveloperInquiry
			f.Message = "Interested in the new tower project"
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := form.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
