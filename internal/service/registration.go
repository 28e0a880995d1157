package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/metrics"
	"docs-approval-backend/internal/repository"
	"docs-approval-backend/internal/validation"
)

type SubmitRegistrationInput struct {
	Username string  `json:"username" validate:"required,min=3,max=50,username"`
	Password string  `json:"password" validate:"required,min=8,max=50"`
	Email    string  `json:"email" validate:"required,min=1,max=100,email"`
	Message  *string `json:"message" validate:"omitempty,max=500"`
}

type ApproveInput struct {
	Message      *string `json:"message" validate:"omitempty,max=500"`
	StorageQuota *int64  `json:"storage_quota" validate:"omitempty,gte=0"`
}

type rejectInput struct {
	Message *string `json:"message" validate:"omitempty,max=500"`
}

// KeyGenerator creates the secret a new account encrypts its files with.
type KeyGenerator func() (string, error)

type registrationService struct {
	store               repository.Store
	emailSvc            EmailService
	newKey              KeyGenerator
	defaultStorageQuota int64
	now                 func() time.Time
}

func NewRegistrationService(store repository.Store, emailSvc EmailService, newKey KeyGenerator, defaultStorageQuota int64) RegistrationService {
	return &registrationService{
		store:               store,
		emailSvc:            emailSvc,
		newKey:              newKey,
		defaultStorageQuota: defaultStorageQuota,
		now:                 time.Now,
	}
}

func (s *registrationService) Submit(ctx context.Context, principal *domain.Principal, in SubmitRegistrationInput) error {
	logger.EnterMethod("registrationService.Submit", "username", in.Username)

	if principal != nil {
		return domain.NewForbiddenError("Registration is only available to anonymous visitors")
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	existing, err := s.store.Users().GetActiveByUsername(ctx, in.Username)
	if err != nil {
		return domain.NewServerError(domain.ErrTypeUnknown, "Unable to check username", err)
	}
	if existing != nil {
		return domain.NewConflictError(domain.ErrTypeAlreadyExistingUsername, "Login already used")
	}

	pending, err := s.store.Registrations().GetByUsername(ctx, in.Username)
	if err != nil {
		return domain.NewServerError(domain.ErrTypeUnknown, "Unable to check pending registrations", err)
	}
	if pending != nil {
		return domain.NewConflictError(domain.ErrTypeRegistrationPending, "A registration request for this username is already pending")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.NewServerError(domain.ErrTypeUnknown, "Unable to hash password", err)
	}

	reg := &domain.Registration{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		Message:      in.Message,
	}
	if err := s.store.Registrations().Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrPendingRegistrationExists) {
			return domain.NewConflictError(domain.ErrTypeRegistrationPending, "A registration request for this username is already pending")
		}
		return domain.NewServerError(domain.ErrTypeUnknown, "Unable to save registration", err)
	}

	metrics.RecordRegistrationTransition(string(domain.RegistrationStatusPending))
	logger.InfoContext(ctx, "Registration submitted", "registration_id", reg.ID, "username", reg.Username)
	logger.ExitMethod("registrationService.Submit", "registration_id", reg.ID)
	return nil
}

func (s *registrationService) List(ctx context.Context, admin *domain.Principal, criteria domain.RegistrationCriteria, sort *domain.SortSpec, page domain.PageRequest) (*domain.Page[domain.RegistrationSummary], error) {
	if !admin.IsAdmin() {
		return nil, domain.NewForbiddenError("Administrator privileges required")
	}
	if criteria.Status != nil && !criteria.Status.Valid() {
		return nil, domain.NewValidationError("validation failed").WithDetail("status", "must be one of: PENDING APPROVED REJECTED")
	}

	result, err := s.store.Registrations().FindPage(ctx, criteria, sort, page)
	if err != nil {
		logger.ErrorContext(ctx, "Registration search failed", "error", err)
		return nil, domain.NewServerError(domain.ErrTypeSearch, "Error searching registration requests", err)
	}
	return result, nil
}

func (s *registrationService) Get(ctx context.Context, admin *domain.Principal, id string) (*domain.RegistrationSummary, error) {
	if !admin.IsAdmin() {
		return nil, domain.NewForbiddenError("Administrator privileges required")
	}

	reg, err := s.store.Registrations().GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewServerError(domain.ErrTypeUnknown, "Unable to load registration", err)
	}
	if reg == nil {
		return nil, domain.NewNotFoundError(domain.ErrTypeRegistrationNotFound, "Registration request not found")
	}

	summary := &domain.RegistrationSummary{
		ID:           reg.ID,
		Username:     reg.Username,
		Email:        reg.Email,
		CreateDate:   reg.CreateDate,
		ApprovalDate: reg.ApprovalDate,
		ApprovedBy:   reg.ApprovedBy,
		Status:       reg.Status,
		Message:      reg.Message,
	}
	if reg.ApprovedBy != nil {
		approver, err := s.store.Users().GetByID(ctx, *reg.ApprovedBy)
		if err != nil {
			return nil, domain.NewServerError(domain.ErrTypeUnknown, "Unable to load approver", err)
		}
		if approver != nil {
			summary.ApprovedByUsername = &approver.Username
		}
	}
	return summary, nil
}

func (s *registrationService) Approve(ctx context.Context, admin *domain.Principal, id string, in ApproveInput) error {
	logger.EnterMethod("registrationService.Approve", "registration_id", id)

	if !admin.IsAdmin() {
		return domain.NewForbiddenError("Administrator privileges required")
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	quota := s.defaultStorageQuota
	if in.StorageQuota != nil {
		quota = *in.StorageQuota
	}

	var decided *domain.Registration
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		reg, err := s.decide(ctx, tx, admin, id, domain.RegistrationStatusApproved, in.Message)
		if err != nil {
			return err
		}

		key, err := s.newKey()
		if err != nil {
			return domain.NewServerError(domain.ErrTypeUserCreation, "Unable to create user account", err)
		}
		user := &domain.User{
			Username:     reg.Username,
			PasswordHash: reg.PasswordHash,
			Email:        reg.Email,
			Role:         domain.UserRoleUser,
			StorageQuota: quota,
			PrivateKey:   key,
			Onboarding:   true,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrUsernameTaken) {
				return domain.NewConflictError(domain.ErrTypeAlreadyExistingUsername, "Login already used")
			}
			return domain.NewServerError(domain.ErrTypeUserCreation, "Unable to create user account", err)
		}

		logger.InfoContext(ctx, "User account created from registration", "registration_id", reg.ID, "user_id", user.ID, "storage_quota", quota)
		decided = reg
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.Approve", err, "registration_id", id)
		return toAppError(err)
	}

	s.afterDecision(ctx, decided)
	logger.ExitMethod("registrationService.Approve", "registration_id", id)
	return nil
}

func (s *registrationService) Reject(ctx context.Context, admin *domain.Principal, id string, message *string) error {
	logger.EnterMethod("registrationService.Reject", "registration_id", id)

	if !admin.IsAdmin() {
		return domain.NewForbiddenError("Administrator privileges required")
	}
	if err := validation.Struct(rejectInput{Message: message}); err != nil {
		return err
	}

	var decided *domain.Registration
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		reg, err := s.decide(ctx, tx, admin, id, domain.RegistrationStatusRejected, message)
		decided = reg
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.Reject", err, "registration_id", id)
		return toAppError(err)
	}

	s.afterDecision(ctx, decided)
	logger.ExitMethod("registrationService.Reject", "registration_id", id)
	return nil
}

// decide loads a pending registration and writes the decision onto it.
func (s *registrationService) decide(ctx context.Context, tx repository.Store, admin *domain.Principal, id string, status domain.RegistrationStatus, message *string) (*domain.Registration, error) {
	reg, err := tx.Registrations().GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewServerError(domain.ErrTypeUnknown, "Unable to load registration", err)
	}
	if reg == nil {
		return nil, domain.NewNotFoundError(domain.ErrTypeRegistrationNotFound, "Registration request not found")
	}
	if !reg.IsPending() {
		return nil, domain.NewConflictError(domain.ErrTypeAlreadyProcessed, "Registration request has already been processed")
	}

	now := s.now().UTC()
	approver := admin.UserID
	reg.Status = status
	reg.ApprovalDate = &now
	reg.ApprovedBy = &approver
	if message != nil {
		reg.Message = message
	}

	if err := tx.Registrations().Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) afterDecision(ctx context.Context, reg *domain.Registration) {
	metrics.RecordRegistrationTransition(string(reg.Status))
	logger.InfoContext(ctx, "Registration decided", "registration_id", reg.ID, "username", reg.Username, "status", reg.Status)

	if err := s.emailSvc.SendRegistrationDecision(ctx, reg); err != nil {
		logger.WarnContext(ctx, "Failed to send registration decision email", "registration_id", reg.ID, "error", err)
	}
}

// toAppError maps repository signals that escaped a unit of work.
func toAppError(err error) error {
	switch {
	case errors.Is(err, domain.ErrRegistrationNotFound):
		return domain.NewNotFoundError(domain.ErrTypeRegistrationNotFound, "Registration request not found")
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return domain.NewConflictError(domain.ErrTypeAlreadyProcessed, "Registration request has already been processed")
	}
	return domain.AsAppError(err)
}
