package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAlertRepository creates a GormAlertRepository with a mocked SQL connection
func newMockAlertRepository(t *testing.T) (*GormAlertRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormAlertRepository(gormDB), mock, mockDB
}

func TestGormAlertRepository_FindByID(t *testing.T) {
	t.Run("finds existing alert", func(t *testing.T) {
		repo, mock, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		alertID := uuid.New()
		companyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "company_id", "title", "message", "type", "severity", "read", "dismissed"}).
			AddRow(alertID, companyID, "Low cash reserves", "Cash below floor", "CASH_GAP", "MEDIUM", false, false)

		mock.ExpectQuery(`SELECT \* FROM "alerts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(alertID, 1).
			WillReturnRows(rows)

		a, err := repo.FindByID(context.Background(), alertID)

		assert.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, alertID, a.ID)
		assert.Equal(t, "Low cash reserves", a.Title)
		assert.True(t, a.IsActive())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to domain not found", func(t *testing.T) {
		repo, mock, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		alertID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "alerts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(alertID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), alertID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAlertRepository_FindActiveByCompanyID(t *testing.T) {
	repo, mock, mockDB := newMockAlertRepository(t)
	defer mockDB.Close()

	companyID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "company_id", "title", "type", "severity", "read", "dismissed"}).
		AddRow(uuid.New(), companyID, "Quick ratio below 1.0", "QUICK_RATIO", "HIGH", false, false).
		AddRow(uuid.New(), companyID, "Low cash reserves", "CASH_GAP", "MEDIUM", true, false)

	mock.ExpectQuery(`SELECT \* FROM "alerts" WHERE company_id = \$1 AND dismissed = \$2 ORDER BY created_at DESC`).
		WithArgs(companyID, false).
		WillReturnRows(rows)

	alerts, err := repo.FindActiveByCompanyID(context.Background(), companyID)

	assert.NoError(t, err)
	assert.Len(t, alerts, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAlertRepository_CountUnreadByCompanyID(t *testing.T) {
	repo, mock, mockDB := newMockAlertRepository(t)
	defer mockDB.Close()

	companyID := uuid.New()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "alerts" WHERE company_id = \$1 AND read = \$2`).
		WithArgs(companyID, false).
		WillReturnRows(rows)

	count, err := repo.CountUnreadByCompanyID(context.Background(), companyID)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAlertRepository_FindByCompanyIDAndSeverity(t *testing.T) {
	repo, mock, mockDB := newMockAlertRepository(t)
	defer mockDB.Close()

	companyID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "company_id", "title", "type", "severity"}).
		AddRow(uuid.New(), companyID, "Critical liquidity issue", "LIQUIDITY_ISSUE", "CRITICAL")

	mock.ExpectQuery(`SELECT \* FROM "alerts" WHERE company_id = \$1 AND severity = \$2 ORDER BY created_at DESC`).
		WithArgs(companyID, "CRITICAL").
		WillReturnRows(rows)

	alerts, err := repo.FindByCompanyIDAndSeverity(context.Background(), companyID, "CRITICAL")

	assert.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Critical liquidity issue", alerts[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
