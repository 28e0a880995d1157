package domain

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Email        string     `json:"email"`
	Role         UserRole   `json:"role"`
	StorageQuota int64      `json:"storage_quota"`
	PrivateKey   string     `json:"-"`
	Onboarding   bool       `json:"onboarding"`
	CreateDate   time.Time  `json:"create_date"`
	DeleteDate   *time.Time `json:"delete_date,omitempty"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   string
	Username string
	Role     UserRole
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == UserRoleAdmin
}
