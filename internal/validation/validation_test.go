package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/registry-service/internal/domain"
)

func validRegistration() RegistrationInput {
	return RegistrationInput{
		FullName: "Jane Doe",
		Email:    "JANE@X.COM",
		ZipCode:  "89101",
		Role:     "fan",
	}
}

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %v", err)
	assert.NotEmpty(t, verr.Message)
	return verr.Reason
}

func TestRegistration_NormalizesFields(t *testing.T) {
	in := validRegistration()
	in.FullName = "  Jane Doe  "
	in.Email = "  JANE@X.COM "
	in.Comment = "  Vegas is ready for this  "
	in.InterestedInTickets = "YES"

	sub, err := Registration(in)
	require.NoError(t, err)

	assert.Equal(t, domain.SubmissionTypeRegistration, sub.Type)
	assert.Equal(t, "Jane Doe", sub.Name)
	assert.Equal(t, "jane@x.com", sub.Email)
	require.NotNil(t, sub.Registration)
	assert.Equal(t, "89101", sub.Registration.ZipCode)
	assert.Equal(t, domain.RoleFan, sub.Registration.Role)
	assert.Equal(t, "Vegas is ready for this", sub.Registration.Comment)
	assert.Equal(t, "yes", sub.Registration.InterestedInTickets)
	assert.Equal(t, domain.DefaultRegistrationSource, sub.Registration.Source)
	assert.Nil(t, sub.Contact)
}

func TestRegistration_RuleOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegistrationInput)
		field  string
		reason Reason
	}{
		{"missing name", func(in *RegistrationInput) { in.FullName = "   " }, "fullName", MissingField},
		{"missing email", func(in *RegistrationInput) { in.Email = "" }, "email", MissingField},
		{"missing zip", func(in *RegistrationInput) { in.ZipCode = "" }, "zipCode", MissingField},
		{"missing zip beats bad email", func(in *RegistrationInput) { in.ZipCode = ""; in.Email = "nope" }, "zipCode", MissingField},
		{"bad email", func(in *RegistrationInput) { in.Email = "jane.x.com" }, "email", InvalidEmail},
		{"email without tld", func(in *RegistrationInput) { in.Email = "jane@x" }, "email", InvalidEmail},
		{"bad email beats bad zip", func(in *RegistrationInput) { in.Email = "a b@c.d"; in.ZipCode = "1" }, "email", InvalidEmail},
		{"short zip", func(in *RegistrationInput) { in.ZipCode = "8910" }, "zipCode", InvalidZip},
		{"bad zip4", func(in *RegistrationInput) { in.ZipCode = "89101-12" }, "zipCode", InvalidZip},
		{"unknown role", func(in *RegistrationInput) { in.Role = "referee" }, "role", InvalidEnum},
		{"empty role", func(in *RegistrationInput) { in.Role = "" }, "role", InvalidEnum},
		{"bad ticket flag", func(in *RegistrationInput) { in.InterestedInTickets = "perhaps" }, "interestedInTickets", InvalidEnum},
		{"business owner without business", func(in *RegistrationInput) { in.Role = "business_owner"; in.BusinessName = "  " }, "businessName", MissingConditionalField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)
			sub, err := Registration(in)
			require.Error(t, err)
			assert.Nil(t, sub)
			assert.Equal(t, tt.reason, reasonOf(t, err))

			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRegistration_AcceptsZipPlusFour(t *testing.T) {
	in := validRegistration()
	in.ZipCode = "89101-1234"
	_, err := Registration(in)
	require.NoError(t, err)
}

func TestRegistration_BusinessOwnerWithName(t *testing.T) {
	in := validRegistration()
	in.Role = "business_owner"
	in.BusinessName = " Desert Cafe "
	sub, err := Registration(in)
	require.NoError(t, err)
	assert.Equal(t, "Desert Cafe", sub.Registration.BusinessName)
}

func validContact() ContactInput {
	return ContactInput{
		Name:         "Sam Investor",
		Email:        "Sam@Fund.io",
		Organization: " Fund LLC ",
		InterestType: "investment",
		Message:      "We would like to discuss an investment.",
	}
}

func TestContact_Normalizes(t *testing.T) {
	sub, err := Contact(validContact())
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionTypeContact, sub.Type)
	assert.Equal(t, "sam@fund.io", sub.Email)
	require.NotNil(t, sub.Contact)
	assert.Equal(t, "Fund LLC", sub.Contact.Organization)
	assert.Equal(t, domain.InterestInvestment, sub.Contact.InterestType)
	assert.Nil(t, sub.Registration)
}

func TestContact_RuleOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ContactInput)
		reason Reason
	}{
		{"missing name", func(in *ContactInput) { in.Name = "" }, MissingField},
		{"missing message", func(in *ContactInput) { in.Message = "   " }, MissingField},
		{"bad email", func(in *ContactInput) { in.Email = "sam@" }, InvalidEmail},
		{"bad interest", func(in *ContactInput) { in.InterestType = "sponsorship" }, InvalidEnum},
		{"bad interest beats short message", func(in *ContactInput) { in.InterestType = ""; in.Message = "short" }, InvalidEnum},
		{"short message", func(in *ContactInput) { in.Message = "  too short to read  " }, TooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validContact()
			tt.mutate(&in)
			_, err := Contact(in)
			require.Error(t, err)
			assert.Equal(t, tt.reason, reasonOf(t, err))
		})
	}
}

func TestContact_MessageLengthCountsTrimmedCharacters(t *testing.T) {
	in := validContact()
	in.Message = "  " + strings.Repeat("é", MinMessageLength) + "  "
	_, err := Contact(in)
	require.NoError(t, err)

	in.Message = strings.Repeat("é", MinMessageLength-1)
	_, err = Contact(in)
	require.Error(t, err)
	assert.Equal(t, TooShort, reasonOf(t, err))
}
