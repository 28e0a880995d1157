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

type registrationRepository struct {
	db      DBTX
	dialect Dialect
	clock   repository.Clock
}

func NewRegistrationRepository(db DBTX, dialect Dialect, clock repository.Clock) repository.RegistrationRepository {
	return &registrationRepository{db: db, dialect: dialect, clock: clock}
}

var registrationSortColumns = map[int]string{
	domain.SortColumnCreateDate: "r.create_date",
	domain.SortColumnUsername:   "r.username",
	domain.SortColumnEmail:      "r.email",
	domain.SortColumnStatus:     "r.status",
}

// registrationOrder resolves a sort spec, falling back to newest first. The id
// tie-break keeps pages stable when sort keys collide.
func registrationOrder(sort *domain.SortSpec) []string {
	column, direction := "r.create_date", "DESC"
	if sort != nil {
		if c, ok := registrationSortColumns[sort.Column]; ok {
			column = c
			direction = "ASC"
			if !sort.Asc {
				direction = "DESC"
			}
		}
	}
	return []string{column + " " + direction, "r.id " + direction}
}

func (r *registrationRepository) searchQuery(criteria domain.RegistrationCriteria) *selectBuilder {
	b := newSelect(r.dialect, "user_registrations r",
		"r.id", "r.username", "r.email", "r.create_date", "r.approval_date",
		"r.approved_by", "u.username", "r.status", "r.message",
	).Join("LEFT JOIN users u ON u.id = r.approved_by")

	if criteria.Search != "" {
		pattern := containsPattern(criteria.Search)
		b.Where(`(r.username LIKE ? ESCAPE '\' OR r.email LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if criteria.Status != nil {
		b.Where("r.status = ?", string(*criteria.Status))
	}
	return b
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	logger.EnterMethod("registrationRepository.Create", "username", reg.Username)

	reg.ID = uuid.NewString()
	reg.CreateDate = r.clock().UTC()
	reg.Status = domain.RegistrationStatusPending
	reg.ApprovalDate = nil
	reg.ApprovedBy = nil

	query := r.dialect.rebind(`INSERT INTO user_registrations (id, username, password_hash, email, create_date, status, message)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`)
	logger.DatabaseCall("INSERT", query, "id", reg.ID)

	result, err := r.db.ExecContext(ctx, query,
		reg.ID, reg.Username, reg.PasswordHash, reg.Email, reg.CreateDate, string(reg.Status), nullString(reg.Message))
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		if isUniqueViolation(err) {
			return domain.ErrPendingRegistrationExists
		}
		return fmt.Errorf("create registration: %w", err)
	}
	rows, _ := result.RowsAffected()
	logger.DatabaseResult("INSERT", rows, nil)

	logger.ExitMethod("registrationRepository.Create", "id", reg.ID)
	return nil
}

func (r *registrationRepository) scanOne(row *sql.Row) (*domain.Registration, error) {
	var (
		reg          domain.Registration
		status       string
		approvalDate sql.NullTime
		approvedBy   sql.NullString
		message      sql.NullString
	)
	err := row.Scan(&reg.ID, &reg.Username, &reg.PasswordHash, &reg.Email, &reg.CreateDate,
		&status, &approvalDate, &approvedBy, &message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	reg.Status = domain.RegistrationStatus(status)
	reg.ApprovalDate = timePtr(approvalDate)
	reg.ApprovedBy = stringPtr(approvedBy)
	reg.Message = stringPtr(message)
	return &reg, nil
}

const registrationColumns = `id, username, password_hash, email, create_date, status, approval_date, approved_by, message`

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := r.dialect.rebind(`SELECT ` + registrationColumns + ` FROM user_registrations WHERE id = ?`)
	logger.DatabaseCall("SELECT", query, "id", id)

	reg, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("get registration %s: %w", id, err)
	}
	return reg, nil
}

func (r *registrationRepository) GetByUsername(ctx context.Context, username string) (*domain.Registration, error) {
	query := r.dialect.rebind(`SELECT ` + registrationColumns + ` FROM user_registrations WHERE username = ? AND status = ?`)
	logger.DatabaseCall("SELECT", query, "username", username)

	reg, err := r.scanOne(r.db.QueryRowContext(ctx, query, username, string(domain.RegistrationStatusPending)))
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("get pending registration for %s: %w", username, err)
	}
	return reg, nil
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	logger.EnterMethod("registrationRepository.Update", "id", reg.ID, "status", reg.Status)

	if !reg.Status.Valid() || reg.Status == domain.RegistrationStatusPending {
		return fmt.Errorf("update registration %s: invalid target status %q", reg.ID, reg.Status)
	}

	// Only a PENDING row may be decided; the guard closes the concurrent approve/reject race.
	query := r.dialect.rebind(`UPDATE user_registrations SET status = ?, approval_date = ?, approved_by = ?, message = ?
	          WHERE id = ? AND status = ?`)
	logger.DatabaseCall("UPDATE", query, "id", reg.ID)

	result, err := r.db.ExecContext(ctx, query,
		string(reg.Status), nullTime(reg.ApprovalDate), nullString(reg.ApprovedBy), nullString(reg.Message),
		reg.ID, string(domain.RegistrationStatusPending))
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return fmt.Errorf("update registration %s: %w", reg.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update registration %s: %w", reg.ID, err)
	}
	logger.DatabaseResult("UPDATE", rows, nil)

	if rows == 0 {
		var status string
		err := r.db.QueryRowContext(ctx, r.dialect.rebind(`SELECT status FROM user_registrations WHERE id = ?`), reg.ID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRegistrationNotFound
		}
		if err != nil {
			return fmt.Errorf("update registration %s: %w", reg.ID, err)
		}
		return domain.ErrAlreadyProcessed
	}

	logger.ExitMethod("registrationRepository.Update", "id", reg.ID)
	return nil
}

func (r *registrationRepository) FindByCriteria(ctx context.Context, criteria domain.RegistrationCriteria, sort *domain.SortSpec) ([]domain.RegistrationSummary, error) {
	query, args := r.searchQuery(criteria).OrderBy(registrationOrder(sort)...).SQL()
	return r.querySummaries(ctx, query, args)
}

func (r *registrationRepository) FindPage(ctx context.Context, criteria domain.RegistrationCriteria, sort *domain.SortSpec, page domain.PageRequest) (*domain.Page[domain.RegistrationSummary], error) {
	logger.EnterMethod("registrationRepository.FindPage", "search", criteria.Search, "limit", page.Limit, "offset", page.Offset)

	b := r.searchQuery(criteria)

	countQuery, countArgs := b.CountSQL()
	logger.DatabaseCall("SELECT COUNT", countQuery)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		logger.DatabaseResult("SELECT COUNT", 0, err)
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	query, args := b.OrderBy(registrationOrder(sort)...).Page(page.Limit, page.Offset).SQL()
	items, err := r.querySummaries(ctx, query, args)
	if err != nil {
		return nil, err
	}

	logger.ExitMethod("registrationRepository.FindPage", "total", total, "returned", len(items))
	return &domain.Page[domain.RegistrationSummary]{Total: total, Items: items}, nil
}

func (r *registrationRepository) CountByCriteria(ctx context.Context, criteria domain.RegistrationCriteria) (int, error) {
	query, args := r.searchQuery(criteria).CountSQL()
	logger.DatabaseCall("SELECT COUNT", query)
	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		logger.DatabaseResult("SELECT COUNT", 0, err)
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return total, nil
}

func (r *registrationRepository) querySummaries(ctx context.Context, query string, args []any) ([]domain.RegistrationSummary, error) {
	logger.DatabaseCall("SELECT", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("search registrations: %w", err)
	}
	defer rows.Close()

	items := []domain.RegistrationSummary{}
	for rows.Next() {
		var (
			s                  domain.RegistrationSummary
			status             string
			approvalDate       sql.NullTime
			approvedBy         sql.NullString
			approvedByUsername sql.NullString
			message            sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Username, &s.Email, &s.CreateDate, &approvalDate,
			&approvedBy, &approvedByUsername, &status, &message); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		s.Status = domain.RegistrationStatus(status)
		s.ApprovalDate = timePtr(approvalDate)
		s.ApprovedBy = stringPtr(approvedBy)
		s.ApprovedByUsername = stringPtr(approvedByUsername)
		s.Message = stringPtr(message)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	logger.DatabaseResult("SELECT", int64(len(items)), nil)
	return items, nil
}
