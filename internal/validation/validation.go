// Package validation checks and normalizes raw form submissions. Rules run in a
// fixed order and the first failure wins.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/registry-service/internal/domain"
)

// Reason classifies a field-level failure.
type Reason string

const (
	MissingField            Reason = "MissingField"
	InvalidEmail            Reason = "InvalidEmail"
	InvalidZip              Reason = "InvalidZip"
	InvalidEnum             Reason = "InvalidEnum"
	TooShort                Reason = "TooShort"
	MissingConditionalField Reason = "MissingConditionalField"
)

// MinMessageLength is the minimum trimmed length of a contact message, in characters.
const MinMessageLength = 20

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipRegex   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Error is a field-level validation failure with a user-facing message.
type Error struct {
	Field   string
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RegistrationInput is the raw registry form payload.
type RegistrationInput struct {
	FullName                string
	Email                   string
	ZipCode                 string
	Role                    string
	BusinessName            string
	YouthClub               string
	InterestedInTickets     string
	InterestedInPartnership string
	Comment                 string
	Source                  string
}

// ContactInput is the raw partnership inquiry payload.
type ContactInput struct {
	Name         string
	Email        string
	Organization string
	InterestType string
	Message      string
}

// ValidateEmail checks the local@domain.tld shape.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateZipCode accepts NNNNN and NNNNN-NNNN.
func ValidateZipCode(zip string) bool {
	return zipRegex.MatchString(zip)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registration validates in and returns the normalized submission without id or timestamp.
func Registration(in RegistrationInput) (*domain.Submission, error) {
	name := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	zip := strings.TrimSpace(in.ZipCode)
	role := domain.Role(strings.TrimSpace(in.Role))

	switch {
	case name == "":
		return nil, &Error{Field: "fullName", Reason: MissingField, Message: "Full name is required"}
	case email == "":
		return nil, &Error{Field: "email", Reason: MissingField, Message: "Email is required"}
	case zip == "":
		return nil, &Error{Field: "zipCode", Reason: MissingField, Message: "Zip code is required"}
	}
	if !ValidateEmail(email) {
		return nil, &Error{Field: "email", Reason: InvalidEmail, Message: "Please provide a valid email address"}
	}
	if !ValidateZipCode(zip) {
		return nil, &Error{Field: "zipCode", Reason: InvalidZip, Message: "Please provide a valid zip code"}
	}
	if !role.IsValid() {
		return nil, &Error{Field: "role", Reason: InvalidEnum, Message: "Please select a valid role"}
	}
	tickets, ok := normalizeFlag(in.InterestedInTickets)
	if !ok {
		return nil, &Error{Field: "interestedInTickets", Reason: InvalidEnum, Message: "Please answer yes or no"}
	}
	partnership, ok := normalizeFlag(in.InterestedInPartnership)
	if !ok {
		return nil, &Error{Field: "interestedInPartnership", Reason: InvalidEnum, Message: "Please answer yes or no"}
	}
	business := strings.TrimSpace(in.BusinessName)
	if role == domain.RoleBusinessOwner && business == "" {
		return nil, &Error{Field: "businessName", Reason: MissingConditionalField, Message: "Business name is required for business owners"}
	}

	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = domain.DefaultRegistrationSource
	}

	return &domain.Submission{
		Type:  domain.SubmissionTypeRegistration,
		Name:  name,
		Email: strings.ToLower(email),
		Registration: &domain.Registration{
			ZipCode:                 zip,
			Role:                    role,
			BusinessName:            business,
			YouthClub:               strings.TrimSpace(in.YouthClub),
			InterestedInTickets:     tickets,
			InterestedInPartnership: partnership,
			Comment:                 strings.TrimSpace(in.Comment),
			Source:                  source,
		},
	}, nil
}

// Contact validates in and returns the normalized submission without id or timestamp.
func Contact(in ContactInput) (*domain.Submission, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)
	interest := domain.InterestType(strings.TrimSpace(in.InterestType))

	switch {
	case name == "":
		return nil, &Error{Field: "name", Reason: MissingField, Message: "Name is required"}
	case email == "":
		return nil, &Error{Field: "email", Reason: MissingField, Message: "Email is required"}
	case message == "":
		return nil, &Error{Field: "message", Reason: MissingField, Message: "Message is required"}
	}
	if !ValidateEmail(email) {
		return nil, &Error{Field: "email", Reason: InvalidEmail, Message: "Please provide a valid email address"}
	}
	if !interest.IsValid() {
		return nil, &Error{Field: "interestType", Reason: InvalidEnum, Message: "Please select a valid interest type"}
	}
	if utf8.RuneCountInString(message) < MinMessageLength {
		return nil, &Error{Field: "message", Reason: TooShort, Message: "Please provide more detail in your message"}
	}

	return &domain.Submission{
		Type:  domain.SubmissionTypeContact,
		Name:  name,
		Email: strings.ToLower(email),
		Contact: &domain.ContactInquiry{
			Organization: strings.TrimSpace(in.Organization),
			InterestType: interest,
			Message:      message,
		},
	}, nil
}

// normalizeFlag maps the tri-state interest answers to "", "yes" or "no".
func normalizeFlag(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case "yes", "true", "1", "on":
		return "yes", true
	case "no", "false", "0", "off":
		return "no", true
	}
	return "", false
}
