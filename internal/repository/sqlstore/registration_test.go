package sqlstore

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docs-approval-backend/internal/domain"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newMockRepo(t *testing.T) (*registrationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRegistrationRepository(db, DialectPostgres, fixedClock).(*registrationRepository), mock
}

func TestRegistrationQuery_SQL(t *testing.T) {
	repo, _ := newMockRepo(t)
	status := domain.RegistrationStatusPending

	t.Run("AllFilters", func(t *testing.T) {
		b := repo.searchQuery(domain.RegistrationCriteria{Search: "ali", Status: &status})
		query, args := b.OrderBy(registrationOrder(&domain.SortSpec{Column: domain.SortColumnUsername, Asc: true})...).Page(10, 20).SQL()

		assert.Equal(t, "SELECT r.id, r.username, r.email, r.create_date, r.approval_date, r.approved_by, u.username, r.status, r.message"+
			" FROM user_registrations r LEFT JOIN users u ON u.id = r.approved_by"+
			` WHERE (r.username LIKE $1 ESCAPE '\' OR r.email LIKE $2 ESCAPE '\') AND r.status = $3`+
			" ORDER BY r.username ASC, r.id ASC LIMIT $4 OFFSET $5", query)
		assert.Equal(t, []any{"%ali%", "%ali%", "PENDING", 10, 20}, args)
	})

	t.Run("CountSharesPredicate", func(t *testing.T) {
		b := repo.searchQuery(domain.RegistrationCriteria{Search: "ali", Status: &status})
		query, args := b.CountSQL()

		assert.Equal(t, "SELECT COUNT(*) FROM (SELECT r.id, r.username, r.email, r.create_date, r.approval_date, r.approved_by, u.username, r.status, r.message"+
			" FROM user_registrations r LEFT JOIN users u ON u.id = r.approved_by"+
			` WHERE (r.username LIKE $1 ESCAPE '\' OR r.email LIKE $2 ESCAPE '\') AND r.status = $3) sub`, query)
		assert.Equal(t, []any{"%ali%", "%ali%", "PENDING"}, args)
	})

	t.Run("EmptyCriteriaIsUnfiltered", func(t *testing.T) {
		query, args := repo.searchQuery(domain.RegistrationCriteria{}).SQL()
		assert.NotContains(t, query, "WHERE")
		assert.Empty(t, args)
	})

	t.Run("SearchTextIsNeverInlined", func(t *testing.T) {
		query, args := repo.searchQuery(domain.RegistrationCriteria{Search: "x' OR '1'='1"}).SQL()
		assert.NotContains(t, query, "'1'='1")
		assert.Equal(t, []any{"%x' OR '1'='1%", "%x' OR '1'='1%"}, args)
	})
}

func TestRegistrationOrder(t *testing.T) {
	cases := []struct {
		name string
		sort *domain.SortSpec
		want []string
	}{
		{"Default", nil, []string{"r.create_date DESC", "r.id DESC"}},
		{"CreateDateAsc", &domain.SortSpec{Column: 1, Asc: true}, []string{"r.create_date ASC", "r.id ASC"}},
		{"UsernameDesc", &domain.SortSpec{Column: 2}, []string{"r.username DESC", "r.id DESC"}},
		{"Email", &domain.SortSpec{Column: 3, Asc: true}, []string{"r.email ASC", "r.id ASC"}},
		{"Status", &domain.SortSpec{Column: 4, Asc: true}, []string{"r.status ASC", "r.id ASC"}},
		{"UnknownFallsBackToNewestFirst", &domain.SortSpec{Column: 9, Asc: true}, []string{"r.create_date DESC", "r.id DESC"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, registrationOrder(tc.sort))
		})
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%alice%", containsPattern("alice"))
	assert.Equal(t, `%50\%\_off\\%`, containsPattern(`50%_off\`))
}

func TestRegistrationRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	t.Run("ForcesPendingAndAssignsIdentity", func(t *testing.T) {
		reg := &domain.Registration{
			Username:     "alice",
			PasswordHash: "hash",
			Email:        "a@x.com",
			Status:       domain.RegistrationStatusApproved,
		}
		mock.ExpectExec("INSERT INTO user_registrations").
			WithArgs(sqlmock.AnyArg(), "alice", "hash", "a@x.com", fixedNow, "PENDING", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, reg)
		assert.NoError(t, err)
		assert.Len(t, reg.ID, 36)
		assert.Equal(t, domain.RegistrationStatusPending, reg.Status)
		assert.Equal(t, fixedNow, reg.CreateDate)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO user_registrations").WillReturnError(assert.AnError)

		err := repo.Create(ctx, &domain.Registration{Username: "bob"})
		assert.ErrorIs(t, err, assert.AnError)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	cols := []string{"id", "username", "password_hash", "email", "create_date", "status", "approval_date", "approved_by", "message"}

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).
			AddRow("r1", "alice", "hash", "a@x.com", fixedNow, "APPROVED", fixedNow, "admin-1", "welcome")
		mock.ExpectQuery(regexp.QuoteMeta("FROM user_registrations WHERE id = $1")).
			WithArgs("r1").
			WillReturnRows(rows)

		reg, err := repo.GetByID(ctx, "r1")
		require.NoError(t, err)
		require.NotNil(t, reg)
		assert.Equal(t, domain.RegistrationStatusApproved, reg.Status)
		assert.Equal(t, "admin-1", *reg.ApprovedBy)
		assert.Equal(t, "welcome", *reg.Message)
		assert.Equal(t, fixedNow, *reg.ApprovalDate)
	})

	t.Run("NotFoundIsAbsence", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM user_registrations WHERE id = $1")).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		reg, err := repo.GetByID(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, reg)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM user_registrations WHERE id = $1")).
			WithArgs("r2").
			WillReturnError(assert.AnError)

		reg, err := repo.GetByID(ctx, "r2")
		assert.Error(t, err)
		assert.Nil(t, reg)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_GetByUsername(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_registrations WHERE username = $1 AND status = $2")).
		WithArgs("alice", "PENDING").
		WillReturnError(sql.ErrNoRows)

	reg, err := repo.GetByUsername(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Nil(t, reg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_Update(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	updateSQL := regexp.QuoteMeta("UPDATE user_registrations SET status = $1, approval_date = $2, approved_by = $3, message = $4") +
		".*" + regexp.QuoteMeta("WHERE id = $5 AND status = $6")
	statusSQL := regexp.QuoteMeta("SELECT status FROM user_registrations WHERE id = $1")

	decided := func(id string) *domain.Registration {
		approver := "admin-1"
		when := fixedNow
		return &domain.Registration{ID: id, Status: domain.RegistrationStatusRejected, ApprovalDate: &when, ApprovedBy: &approver}
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(updateSQL).
			WithArgs("REJECTED", fixedNow, "admin-1", nil, "r1", "PENDING").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, decided("r1")))
	})

	t.Run("MissingIDIsNotFound", func(t *testing.T) {
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(statusSQL).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		assert.ErrorIs(t, repo.Update(ctx, decided("nope")), domain.ErrRegistrationNotFound)
	})

	t.Run("DecidedRowIsAlreadyProcessed", func(t *testing.T) {
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(statusSQL).WithArgs("r2").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("APPROVED"))

		assert.ErrorIs(t, repo.Update(ctx, decided("r2")), domain.ErrAlreadyProcessed)
	})

	t.Run("RefusesPendingTarget", func(t *testing.T) {
		err := repo.Update(ctx, &domain.Registration{ID: "r3", Status: domain.RegistrationStatusPending})
		assert.ErrorContains(t, err, "invalid target status")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_FindPage(t *testing.T) {
	repo, mock := newMockRepo(t)
	status := domain.RegistrationStatusApproved

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM (")).
		WithArgs("APPROVED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY r.create_date DESC, r.id DESC LIMIT $2 OFFSET $3")).
		WithArgs("APPROVED", 2, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "create_date", "approval_date", "approved_by", "approver", "status", "message"}).
			AddRow("r5", "eve", "e@x.com", fixedNow, fixedNow, "admin-1", "root", "APPROVED", nil).
			AddRow("r6", "frank", "f@x.com", fixedNow, fixedNow, "admin-1", "root", "APPROVED", "hi"))

	page, err := repo.FindPage(context.Background(), domain.RegistrationCriteria{Status: &status}, nil, domain.PageRequest{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "root", *page.Items[0].ApprovedByUsername)
	assert.Nil(t, page.Items[0].Message)
	assert.Equal(t, "hi", *page.Items[1].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
