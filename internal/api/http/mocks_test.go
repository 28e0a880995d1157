package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/security"
	"docs-approval-backend/internal/service"
)

// MockRegistrationService
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Submit(ctx context.Context, principal *domain.Principal, in service.SubmitRegistrationInput) error {
	args := m.Called(ctx, principal, in)
	return args.Error(0)
}
func (m *MockRegistrationService) List(ctx context.Context, admin *domain.Principal, criteria domain.RegistrationCriteria, sort *domain.SortSpec, page domain.PageRequest) (*domain.Page[domain.RegistrationSummary], error) {
	args := m.Called(ctx, admin, criteria, sort, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.RegistrationSummary]), args.Error(1)
}
func (m *MockRegistrationService) Get(ctx context.Context, admin *domain.Principal, id string) (*domain.RegistrationSummary, error) {
	args := m.Called(ctx, admin, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationSummary), args.Error(1)
}
func (m *MockRegistrationService) Approve(ctx context.Context, admin *domain.Principal, id string, in service.ApproveInput) error {
	args := m.Called(ctx, admin, id, in)
	return args.Error(0)
}
func (m *MockRegistrationService) Reject(ctx context.Context, admin *domain.Principal, id string, message *string) error {
	args := m.Called(ctx, admin, id, message)
	return args.Error(0)
}

// MockTranslationService
type MockTranslationService struct {
	mock.Mock
}

func (m *MockTranslationService) Configured() bool {
	return m.Called().Bool(0)
}
func (m *MockTranslationService) CheckFileAccess(ctx context.Context, principal *domain.Principal, fileID string) (*domain.File, error) {
	args := m.Called(ctx, principal, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.File), args.Error(1)
}
func (m *MockTranslationService) Submit(ctx context.Context, fileID, from, to, userID string) (string, bool) {
	args := m.Called(ctx, fileID, from, to, userID)
	return args.String(0), args.Bool(1)
}
func (m *MockTranslationService) PollStatus(ctx context.Context, flowNumber string) (*domain.TranslationStatus, bool) {
	args := m.Called(ctx, flowNumber)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.TranslationStatus), args.Bool(1)
}
func (m *MockTranslationService) Download(ctx context.Context, flowNumber, fileType string) ([]byte, bool) {
	args := m.Called(ctx, flowNumber, fileType)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]byte), args.Bool(1)
}

// stubAuth resolves a fixed set of bearer tokens.
type stubAuth struct {
	principals map[string]*domain.Principal
	login      func(username, password string) (string, error)
}

func (s *stubAuth) Login(ctx context.Context, username, password string) (string, error) {
	return s.login(username, password)
}

func (s *stubAuth) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	return nil, security.ErrInvalidToken
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }
