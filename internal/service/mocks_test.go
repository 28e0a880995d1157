package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/repository"
	"docs-approval-backend/internal/translator"
)

// MockRegistrationRepo
type MockRegistrationRepo struct {
	mock.Mock
}

func (m *MockRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}
func (m *MockRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}
func (m *MockRegistrationRepo) GetByUsername(ctx context.Context, username string) (*domain.Registration, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}
func (m *MockRegistrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}
func (m *MockRegistrationRepo) FindByCriteria(ctx context.Context, criteria domain.RegistrationCriteria, sort *domain.SortSpec) ([]domain.RegistrationSummary, error) {
	args := m.Called(ctx, criteria, sort)
	return args.Get(0).([]domain.RegistrationSummary), args.Error(1)
}
func (m *MockRegistrationRepo) FindPage(ctx context.Context, criteria domain.RegistrationCriteria, sort *domain.SortSpec, page domain.PageRequest) (*domain.Page[domain.RegistrationSummary], error) {
	args := m.Called(ctx, criteria, sort, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.RegistrationSummary]), args.Error(1)
}
func (m *MockRegistrationRepo) CountByCriteria(ctx context.Context, criteria domain.RegistrationCriteria) (int, error) {
	args := m.Called(ctx, criteria)
	return args.Int(0), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockFileRepo
type MockFileRepo struct {
	mock.Mock
}

func (m *MockFileRepo) Create(ctx context.Context, file *domain.File) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}
func (m *MockFileRepo) GetActive(ctx context.Context, id string) (*domain.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.File), args.Error(1)
}

// MockStore hands out the mock repositories and runs units of work inline.
type MockStore struct {
	Regs  *MockRegistrationRepo
	Usrs  *MockUserRepo
	Fls   *MockFileRepo
	TxRun int
}

func NewMockStore() *MockStore {
	return &MockStore{Regs: new(MockRegistrationRepo), Usrs: new(MockUserRepo), Fls: new(MockFileRepo)}
}

func (m *MockStore) Registrations() repository.RegistrationRepository { return m.Regs }
func (m *MockStore) Users() repository.UserRepository                 { return m.Usrs }
func (m *MockStore) Files() repository.FileRepository                 { return m.Fls }
func (m *MockStore) Ping(ctx context.Context) error                   { return nil }
func (m *MockStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	m.TxRun++
	return fn(m)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRegistrationDecision(ctx context.Context, reg *domain.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}
func (m *MockEmailService) SendPendingRegistrationDigest(ctx context.Context, admin domain.User, pending int) error {
	args := m.Called(ctx, admin, pending)
	return args.Error(0)
}

// MockVendor
type MockVendor struct {
	mock.Mock
}

func (m *MockVendor) Configured() bool {
	return m.Called().Bool(0)
}
func (m *MockVendor) Upload(ctx context.Context, req translator.UploadRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *MockVendor) Query(ctx context.Context, flowNumber string) (*domain.TranslationStatus, error) {
	args := m.Called(ctx, flowNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TranslationStatus), args.Error(1)
}
func (m *MockVendor) Download(ctx context.Context, flowNumber, downloadFileType string) ([]byte, error) {
	args := m.Called(ctx, flowNumber, downloadFileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
