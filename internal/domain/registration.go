package domain

import "time"

type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "PENDING"
	RegistrationStatusApproved RegistrationStatus = "APPROVED"
	RegistrationStatusRejected RegistrationStatus = "REJECTED"
)

// Valid reports whether s is one of the three known statuses.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusApproved, RegistrationStatusRejected:
		return true
	}
	return false
}

type Registration struct {
	ID           string             `json:"id"`
	Username     string             `json:"username"`
	PasswordHash string             `json:"-"`
	Email        string             `json:"email"`
	Message      *string            `json:"message,omitempty"`
	CreateDate   time.Time          `json:"create_date"`
	Status       RegistrationStatus `json:"status"`
	ApprovalDate *time.Time         `json:"approval_date,omitempty"`
	ApprovedBy   *string            `json:"approved_by,omitempty"`
}

// IsPending reports whether the registration can still be approved or rejected.
func (r *Registration) IsPending() bool {
	return r.Status == RegistrationStatusPending
}

// RegistrationCriteria filters a registration search. Zero value matches everything.
type RegistrationCriteria struct {
	Search string
	Status *RegistrationStatus
}

// RegistrationSummary is the list/detail projection joined with the approver's username.
type RegistrationSummary struct {
	ID                 string
	Username           string
	Email              string
	CreateDate         time.Time
	ApprovalDate       *time.Time
	ApprovedBy         *string
	ApprovedByUsername *string
	Status             RegistrationStatus
	Message            *string
}
