package domain

import "time"

// SubmissionType tags the variant of a stored submission.
type SubmissionType string

const (
	SubmissionTypeRegistration SubmissionType = "registration"
	SubmissionTypeContact      SubmissionType = "contact"
)

// DefaultRegistrationSource labels registrations coming from the community registry form.
const DefaultRegistrationSource = "community_registry"

// Role enumerates how a registrant relates to the initiative.
type Role string

const (
	RoleParent        Role = "parent"
	RolePlayer        Role = "player"
	RoleCoach         Role = "coach"
	RoleFan           Role = "fan"
	RoleBusinessOwner Role = "business_owner"
	RoleOther         Role = "other"
)

// Roles lists every accepted registration role.
var Roles = []Role{RoleParent, RolePlayer, RoleCoach, RoleFan, RoleBusinessOwner, RoleOther}

// IsValid reports whether r is one of Roles.
func (r Role) IsValid() bool {
	for _, candidate := range Roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// IsYouth reports whether the role counts toward the youth aggregate.
func (r Role) IsYouth() bool {
	return r == RoleParent || r == RolePlayer
}

// Label is the public display name used on testimonials.
func (r Role) Label() string {
	switch r {
	case RoleParent:
		return "Parent"
	case RolePlayer:
		return "Player"
	case RoleCoach:
		return "Coach"
	case RoleFan:
		return "Fan"
	case RoleBusinessOwner:
		return "Business Owner"
	default:
		return "Supporter"
	}
}

// InterestType enumerates partnership inquiry topics.
type InterestType string

const (
	InterestInvestment  InterestType = "investment"
	InterestOwnership   InterestType = "ownership"
	InterestPartnership InterestType = "partnership"
	InterestOther       InterestType = "other"
)

// InterestTypes lists every accepted contact interest.
var InterestTypes = []InterestType{InterestInvestment, InterestOwnership, InterestPartnership, InterestOther}

// IsValid reports whether t is one of InterestTypes.
func (t InterestType) IsValid() bool {
	for _, candidate := range InterestTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// Registration holds the registry-specific fields.
type Registration struct {
	ZipCode                 string `json:"zipCode"`
	Role                    Role   `json:"role"`
	BusinessName            string `json:"businessName,omitempty"`
	YouthClub               string `json:"youthClub,omitempty"`
	InterestedInTickets     string `json:"interestedInTickets,omitempty"`
	InterestedInPartnership string `json:"interestedInPartnership,omitempty"`
	Comment                 string `json:"comment,omitempty"`
	Source                  string `json:"submissionType,omitempty"`
}

// ContactInquiry holds the partnership inquiry fields.
type ContactInquiry struct {
	Organization string       `json:"organization,omitempty"`
	InterestType InterestType `json:"interestType"`
	Message      string       `json:"message"`
}

// Submission is a registration or contact inquiry. Exactly one of Registration
// and Contact is set, matching Type. Submissions are never mutated once stored.
type Submission struct {
	ID           string          `json:"id"`
	Type         SubmissionType  `json:"type"`
	CreatedAt    time.Time       `json:"createdAt"`
	Name         string          `json:"fullName"`
	Email        string          `json:"email"`
	Registration *Registration   `json:"registration,omitempty"`
	Contact      *ContactInquiry `json:"contact,omitempty"`
}

// RoleOf returns the registration role, or "" for contact inquiries.
func (s *Submission) RoleOf() Role {
	if s.Registration == nil {
		return ""
	}
	return s.Registration.Role
}

// IDPrefix returns the identifier prefix for the submission type.
func (t SubmissionType) IDPrefix() string {
	if t == SubmissionTypeContact {
		return "con_"
	}
	return "reg_"
}
