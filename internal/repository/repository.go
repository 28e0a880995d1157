package repository

import (
	"context"
	"time"

	"docs-approval-backend/internal/domain"
)

type RegistrationRepository interface {
	// Create assigns ID and creation date and forces the status to PENDING.
	Create(ctx context.Context, reg *domain.Registration) error
	// GetByID returns nil, nil when the registration does not exist.
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	// GetByUsername returns the PENDING registration for username, or nil, nil.
	GetByUsername(ctx context.Context, username string) (*domain.Registration, error)
	// Update writes a decision onto a PENDING registration. It returns
	// domain.ErrRegistrationNotFound or domain.ErrAlreadyProcessed when nothing was written.
	Update(ctx context.Context, reg *domain.Registration) error
	FindByCriteria(ctx context.Context, criteria domain.RegistrationCriteria, sort *domain.SortSpec) ([]domain.RegistrationSummary, error)
	FindPage(ctx context.Context, criteria domain.RegistrationCriteria, sort *domain.SortSpec, page domain.PageRequest) (*domain.Page[domain.RegistrationSummary], error)
	CountByCriteria(ctx context.Context, criteria domain.RegistrationCriteria) (int, error)
}

type UserRepository interface {
	// Create returns domain.ErrUsernameTaken when an active user already owns the username.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetActiveByUsername returns nil, nil when no active user has the username.
	GetActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

type FileRepository interface {
	Create(ctx context.Context, file *domain.File) error
	// GetActive returns nil, nil for unknown or deleted files.
	GetActive(ctx context.Context, id string) (*domain.File, error)
}

// Store groups the repositories and runs units of work.
type Store interface {
	Registrations() RegistrationRepository
	Users() UserRepository
	Files() FileRepository
	// WithTx runs fn against repositories bound to one transaction, committing
	// when fn returns nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

// Clock supplies timestamps to repositories.
type Clock func() time.Time
