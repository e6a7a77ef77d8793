// Package generate builds the proposal prompt from form input and
// retrieved context, and calls the hosted model.
package generate

import (
	"fmt"
	"regexp"
	"strings"
)

// ProposalRequest is the business information collected by the form.
type ProposalRequest struct {
	Company  string `json:"company"`
	Industry string `json:"industry"`
	Goals    string `json:"goals"`
	Audience string `json:"audience,omitempty"`
	Budget   string `json:"budget,omitempty"`
	Email    string `json:"email"`
}

const maxFieldLen = 1000

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// Free-text fields are interpolated into the prompt, so obvious
	// instruction-override attempts are rejected up front.
	injectionRe = regexp.MustCompile(
		`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
			`act\s+as\s+|pretend\s+|forget\s+(everything|all)|override|` +
			`new\s+instructions)`,
	)
)

// Validate checks required fields, length caps, and screens free-text
// fields before they reach the prompt.
func (r *ProposalRequest) Validate() error {
	r.Company = strings.TrimSpace(r.Company)
	r.Industry = strings.TrimSpace(r.Industry)
	r.Goals = strings.TrimSpace(r.Goals)
	r.Audience = strings.TrimSpace(r.Audience)
	r.Budget = strings.TrimSpace(r.Budget)
	r.Email = strings.TrimSpace(r.Email)

	if r.Company == "" {
		return fmt.Errorf("company is required")
	}
	if r.Goals == "" {
		return fmt.Errorf("goals is required")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRe.MatchString(r.Email) {
		return fmt.Errorf("email %q is not a valid address", r.Email)
	}

	for name, v := range map[string]string{
		"company":  r.Company,
		"industry": r.Industry,
		"goals":    r.Goals,
		"audience": r.Audience,
		"budget":   r.Budget,
	} {
		if len(v) > maxFieldLen {
			return fmt.Errorf("%s exceeds %d characters", name, maxFieldLen)
		}
		if injectionRe.MatchString(v) {
			return fmt.Errorf("%s contains disallowed content", name)
		}
	}
	return nil
}
