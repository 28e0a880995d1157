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

type fileRepository struct {
	db      DBTX
	dialect Dialect
	clock   repository.Clock
}

func NewFileRepository(db DBTX, dialect Dialect, clock repository.Clock) repository.FileRepository {
	return &fileRepository{db: db, dialect: dialect, clock: clock}
}

func (r *fileRepository) Create(ctx context.Context, f *domain.File) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreateDate = r.clock().UTC()

	query := r.dialect.rebind(`INSERT INTO files (id, user_id, name, mimetype, size, create_date) VALUES (?, ?, ?, ?, ?, ?)`)
	logger.DatabaseCall("INSERT", query, "id", f.ID)

	if _, err := r.db.ExecContext(ctx, query, f.ID, f.UserID, nullString(f.Name), f.MimeType, f.Size, f.CreateDate); err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

func (r *fileRepository) GetActive(ctx context.Context, id string) (*domain.File, error) {
	query := r.dialect.rebind(`SELECT id, user_id, name, mimetype, size, create_date, delete_date FROM files WHERE id = ? AND delete_date IS NULL`)
	logger.DatabaseCall("SELECT", query, "id", id)

	var (
		f          domain.File
		name       sql.NullString
		deleteDate sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.UserID, &name, &f.MimeType, &f.Size, &f.CreateDate, &deleteDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("get file %s: %w", id, err)
	}
	f.Name = stringPtr(name)
	f.DeleteDate = timePtr(deleteDate)
	return &f, nil
}
