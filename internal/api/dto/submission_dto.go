package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/registry-service/internal/validation"
)

// FlexString accepts a JSON string, boolean or number and keeps its text form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = FlexString(strconv.FormatBool(t))
	case float64:
		*f = FlexString(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		*f = ""
	}
	return nil
}

// RegistrationRequest accepts both camelCase and snake_case field names, as
// JSON or form-encoded. camelCase wins when both are present.
type RegistrationRequest struct {
	FullName                     string     `json:"fullName" form:"fullName"`
	FullNameSnake                string     `json:"full_name" form:"full_name"`
	Email                        string     `json:"email" form:"email"`
	ZipCode                      string     `json:"zipCode" form:"zipCode"`
	ZipCodeSnake                 string     `json:"zip_code" form:"zip_code"`
	Role                         string     `json:"role" form:"role"`
	BusinessName                 string     `json:"businessName" form:"businessName"`
	BusinessNameSnake            string     `json:"business_name" form:"business_name"`
	YouthClub                    string     `json:"youthClub" form:"youthClub"`
	YouthClubSnake               string     `json:"youth_club" form:"youth_club"`
	InterestedInTickets          FlexString `json:"interestedInTickets" form:"interestedInTickets"`
	InterestedInTicketsSnake     FlexString `json:"interested_in_tickets" form:"interested_in_tickets"`
	InterestedInPartnership      FlexString `json:"interestedInPartnership" form:"interestedInPartnership"`
	InterestedInPartnershipSnake FlexString `json:"interested_in_partnership" form:"interested_in_partnership"`
	Comment                      string     `json:"comment" form:"comment"`
	SupportReason                string     `json:"support_reason" form:"support_reason"`
	SubmissionType               string     `json:"submission_type" form:"submission_type"`
	SubmissionTypeCamel          string     `json:"submissionType" form:"submissionType"`
	Website                      string     `json:"website" form:"website"`
}

// Input merges the aliases into the validation input.
func (r RegistrationRequest) Input() validation.RegistrationInput {
	return validation.RegistrationInput{
		FullName:                first(r.FullName, r.FullNameSnake),
		Email:                   r.Email,
		ZipCode:                 first(r.ZipCode, r.ZipCodeSnake),
		Role:                    r.Role,
		BusinessName:            first(r.BusinessName, r.BusinessNameSnake),
		YouthClub:               first(r.YouthClub, r.YouthClubSnake),
		InterestedInTickets:     first(string(r.InterestedInTickets), string(r.InterestedInTicketsSnake)),
		InterestedInPartnership: first(string(r.InterestedInPartnership), string(r.InterestedInPartnershipSnake)),
		Comment:                 first(r.Comment, r.SupportReason),
		Source:                  first(r.SubmissionTypeCamel, r.SubmissionType),
	}
}

// ContactRequest is the partnership inquiry payload.
type ContactRequest struct {
	Name              string `json:"name" form:"name"`
	Email             string `json:"email" form:"email"`
	Organization      string `json:"organization" form:"organization"`
	InterestType      string `json:"interestType" form:"interestType"`
	InterestTypeSnake string `json:"interest_type" form:"interest_type"`
	Message           string `json:"message" form:"message"`
	Website           string `json:"website" form:"website"`
}

// Input converts the request into the validation input.
func (r ContactRequest) Input() validation.ContactInput {
	return validation.ContactInput{
		Name:         r.Name,
		Email:        r.Email,
		Organization: r.Organization,
		InterestType: first(r.InterestType, r.InterestTypeSnake),
		Message:      r.Message,
	}
}

// SubmissionCreatedResponse is returned with 201.
type SubmissionCreatedResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

// LoginResponse is returned to programmatic login callers.
type LoginResponse struct {
	Success   bool      `json:"success"`
	ExpiresAt time.Time `json:"expires_at"`
}

// QuotesResponse wraps the public testimonials.
type QuotesResponse struct {
	Quotes interface{} `json:"quotes"`
}

func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
