// Package models defines the domain types for CyberShield.
package models

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CaseStatus is the lifecycle state of a case record.
type CaseStatus string

// Lifecycle states. Submitted is the only initial state; Resolved is terminal.
const (
	StatusSubmitted  CaseStatus = "Submitted"
	StatusEscalated  CaseStatus = "Escalated"
	StatusInProgress CaseStatus = "In Progress"
	StatusResolved   CaseStatus = "Resolved"
)

// AnonymousReporter is the sentinel stored in place of a reporter name when
// the submission is anonymous or the name is absent.
const AnonymousReporter = "Anonymous"

// Valid reports whether s is one of the declared lifecycle states.
func (s CaseStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusEscalated, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// No transition is reversible and Resolved is terminal.
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	switch s {
	case StatusSubmitted:
		return next == StatusEscalated || next == StatusInProgress
	case StatusEscalated, StatusInProgress:
		return next == StatusResolved
	}
	return false
}

// EvidenceFile is a named reference to an uploaded evidence blob. The
// reference is a served URL path and carries no durability guarantee.
type EvidenceFile struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
}

// CaseRecord is one submitted incident report.
//
// UpdatedAt is a pointer so that a record that has never transitioned
// serializes without the field, and the distinction survives a round trip.
type CaseRecord struct {
	ID            string         `json:"id"`
	IsAnonymous   bool           `json:"isAnonymous"`
	ReporterName  string         `json:"reporterName"`
	Description   string         `json:"description"`
	EvidenceLinks []string       `json:"evidenceLinks"`
	EvidenceFiles []EvidenceFile `json:"evidenceFiles"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     *time.Time     `json:"updatedAt,omitempty"`
	Status        CaseStatus     `json:"status"`
}

// Validation rejection reasons. The gate evaluates rules in order and the
// first failure wins.
var (
	ErrAutomatedSubmission = validation.NewError("validation_honeypot", "automated submission suspected")
	ErrNameTooLong         = validation.NewError("validation_name_length", "name too long")
	ErrDescriptionTooShort = validation.NewError("validation_description_length", "description too short")
	ErrMessageTooShort     = validation.NewError("validation_message_length", "message too short")
	ErrInvalidEmail        = validation.NewError("validation_email_shape", "invalid email address")
)

// ReportSubmission is the candidate input for creating a case record.
type ReportSubmission struct {
	Honeypot      string         `json:"website"`
	IsAnonymous   bool           `json:"isAnonymous"`
	ReporterName  string         `json:"reporterName"`
	Description   string         `json:"description"`
	EvidenceLinks []string       `json:"evidenceLinks"`
	EvidenceFiles []EvidenceFile `json:"evidenceFiles"`
}

// Validate applies the submission gate. Rules run in order; the first
// failure is returned and nothing else is evaluated.
func (s ReportSubmission) Validate() error {
	if err := validation.Validate(s.Honeypot, validation.Empty.ErrorObject(ErrAutomatedSubmission)); err != nil {
		return err
	}
	if !s.IsAnonymous {
		if err := validation.Validate(s.ReporterName, validation.RuneLength(0, 80).ErrorObject(ErrNameTooLong)); err != nil {
			return err
		}
	}
	desc := strings.TrimSpace(s.Description)
	return validation.Validate(desc,
		validation.Required.ErrorObject(ErrDescriptionTooShort),
		validation.RuneLength(10, 0).ErrorObject(ErrDescriptionTooShort),
	)
}

// ContactMessage is a contact-form submission relayed to the upstream
// support endpoint.
type ContactMessage struct {
	Honeypot string `json:"website"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
}

// Validate applies the contact gate: honeypot, minimum message length, and a
// syntactic email-shape check that only runs when an email was supplied.
func (m ContactMessage) Validate() error {
	if err := validation.Validate(m.Honeypot, validation.Empty.ErrorObject(ErrAutomatedSubmission)); err != nil {
		return err
	}
	msg := strings.TrimSpace(m.Message)
	if err := validation.Validate(msg,
		validation.Required.ErrorObject(ErrMessageTooShort),
		validation.RuneLength(10, 0).ErrorObject(ErrMessageTooShort),
	); err != nil {
		return err
	}
	if m.Email == "" {
		return nil
	}
	return validation.Validate(m.Email, validation.By(emailShape))
}

// emailShape checks for an "@" with a "." somewhere after it and no embedded
// whitespace. It is intentionally shallow; the upstream endpoint owns real
// address verification.
func emailShape(v interface{}) error {
	addr, _ := v.(string)
	if strings.ContainsAny(addr, " \t\n") {
		return ErrInvalidEmail
	}
	at := strings.Index(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return ErrInvalidEmail
	}
	if !strings.Contains(addr[at+1:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

// IsValidationError reports whether err came from one of the validation gates.
func IsValidationError(err error) bool {
	var vErr validation.Error
	return errors.As(err, &vErr)
}
