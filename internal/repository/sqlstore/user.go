package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/repository"
)

type userRepository struct {
	db      DBTX
	dialect Dialect
	clock   repository.Clock
}

func NewUserRepository(db DBTX, dialect Dialect, clock repository.Clock) repository.UserRepository {
	return &userRepository{db: db, dialect: dialect, clock: clock}
}

const userColumns = `id, username, password_hash, email, role, storage_quota, private_key, onboarding, create_date, delete_date`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreateDate = r.clock().UTC()

	query := r.dialect.rebind(`INSERT INTO users (id, username, password_hash, email, role, storage_quota, private_key, onboarding, create_date)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	logger.DatabaseCall("INSERT", query, "username", u.Username)

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Username, u.PasswordHash, u.Email, string(u.Role), u.StorageQuota, u.PrivateKey, u.Onboarding, u.CreateDate)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		if isUniqueViolation(err) {
			return fmt.Errorf("create user %s: %w", u.Username, domain.ErrUsernameTaken)
		}
		return fmt.Errorf("create user %s: %w", u.Username, err)
	}
	logger.DatabaseResult("INSERT", 1, nil)
	return nil
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var (
		u          domain.User
		role       string
		deleteDate sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &role, &u.StorageQuota,
		&u.PrivateKey, &u.Onboarding, &u.CreateDate, &deleteDate); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	u.DeleteDate = timePtr(deleteDate)
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := r.dialect.rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	logger.DatabaseCall("SELECT", query, "id", id)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (r *userRepository) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := r.dialect.rebind(`SELECT ` + userColumns + ` FROM users WHERE username = ? AND delete_date IS NULL`)
	logger.DatabaseCall("SELECT", query, "username", username)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return u, nil
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	query := r.dialect.rebind(`SELECT ` + userColumns + ` FROM users WHERE role = ? AND delete_date IS NULL ORDER BY username`)
	logger.DatabaseCall("SELECT", query)

	rows, err := r.db.QueryContext(ctx, query, string(domain.UserRoleAdmin))
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, *u)
	}
	return admins, rows.Err()
}
