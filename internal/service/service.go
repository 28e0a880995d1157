package service

import (
	"context"

	"docs-approval-backend/internal/domain"
)

type RegistrationService interface {
	Submit(ctx context.Context, principal *domain.Principal, in SubmitRegistrationInput) error
	List(ctx context.Context, admin *domain.Principal, criteria domain.RegistrationCriteria, sort *domain.SortSpec, page domain.PageRequest) (*domain.Page[domain.RegistrationSummary], error)
	Get(ctx context.Context, admin *domain.Principal, id string) (*domain.RegistrationSummary, error)
	Approve(ctx context.Context, admin *domain.Principal, id string, in ApproveInput) error
	Reject(ctx context.Context, admin *domain.Principal, id string, message *string) error
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// TranslationService orchestrates vendor translation jobs for stored files.
// Vendor and decryption failures are reported through the boolean result.
type TranslationService interface {
	Configured() bool
	CheckFileAccess(ctx context.Context, principal *domain.Principal, fileID string) (*domain.File, error)
	Submit(ctx context.Context, fileID, from, to, userID string) (string, bool)
	PollStatus(ctx context.Context, flowNumber string) (*domain.TranslationStatus, bool)
	Download(ctx context.Context, flowNumber, fileType string) ([]byte, bool)
}

type EmailService interface {
	SendRegistrationDecision(ctx context.Context, reg *domain.Registration) error
	SendPendingRegistrationDigest(ctx context.Context, admin domain.User, pending int) error
}
