// Package handoff converts an AI advisor conversation into a human-agent
// lead: summary generation, agent matching, lead persistence, and the audit
// trail, in that order.
package handoff

import (
	"fmt"

	"github.com/estateflow/estateflow/internal/core"
)

// Form is the handoff submission contract. LeadType tags which variant the
// form is; Validate enforces the per-variant required fields.
type Form struct {
	Name             string                `json:"name"`
	Email            string                `json:"email"`
	Phone            string                `json:"phone"`
	PreferredTime    string                `json:"preferredTime"`
	PreferredChannel core.PreferredChannel `json:"preferredChannel"`
	LeadType         core.LeadType         `json:"leadType"`
	FinancingNeeded  bool                  `json:"financingNeeded"`
	Message          string                `json:"message,omitempty"`
}

// Validate checks the common fields plus the variant-specific requirements
func (f *Form) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name", core.ErrMissingRequired)
	}
	if f.Email == "" && f.Phone == "" {
		return fmt.Errorf("%w: email or phone", core.ErrMissingRequired)
	}
	if !f.LeadType.Valid() {
		return fmt.Errorf("%w: leadType %q", core.ErrInvalidInput, f.LeadType)
	}
	if f.PreferredChannel != "" && !f.PreferredChannel.Valid() {
		return fmt.Errorf("%w: preferredChannel %q", core.ErrInvalidInput, f.PreferredChannel)
	}

	switch f.LeadType {
	case core.LeadTypeViewing:
		if f.PreferredTime == "" {
			return fmt.Errorf("%w: preferredTime for viewing requests", core.ErrMissingRequired)
		}
	case core.LeadTypeDeveloperInquiry:
		if f.Message == "" {
			return fmt.Errorf("%w: message for developer inquiries", core.ErrMissingRequired)
		}
	}

	return nil
}
