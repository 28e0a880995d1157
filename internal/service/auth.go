package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/repository"
	"docs-approval-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type authService struct {
	users  repository.UserRepository
	tokens security.TokenManager
}

func NewAuthService(users repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetActiveByUsername(ctx, username)
	if err != nil {
		return "", domain.NewServerError(domain.ErrTypeUnknown, "Unable to load user", err)
	}
	if user == nil {
		return "", invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.WarnContext(ctx, "Login failed", "username", username)
		return "", invalidCredentials()
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", domain.NewServerError(domain.ErrTypeUnknown, "Unable to issue token", err)
	}
	logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return token, nil
}

// Authenticate resolves a bearer token to the active user it was issued to.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.DeleteDate != nil {
		return nil, security.ErrInvalidToken
	}

	return &domain.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func invalidCredentials() error {
	appErr := domain.NewUnauthorizedError(domain.ErrTypeInvalidCredentials, "Invalid username or password")
	appErr.Internal = ErrInvalidCredentials
	return appErr
}
