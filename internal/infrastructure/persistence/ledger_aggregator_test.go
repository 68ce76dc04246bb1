package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fintech/wcm/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAggregator creates a GormLedgerAggregator with a mocked SQL connection
func newMockAggregator(t *testing.T) (*GormLedgerAggregator, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormLedgerAggregator(gormDB), mock, mockDB
}

func TestGormLedgerAggregator_SumCash(t *testing.T) {
	t.Run("sums active account balances", func(t *testing.T) {
		agg, mock, mockDB := newMockAggregator(t)
		defer mockDB.Close()

		companyID := uuid.New()

		rows := sqlmock.NewRows([]string{"total"}).AddRow("50000.00")
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(balance_base\), 0\) AS total FROM "cash_accounts" WHERE company_id = \$1 AND active = \$2`).
			WithArgs(companyID, true).
			WillReturnRows(rows)

		total, err := agg.SumCash(context.Background(), companyID)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(50000)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero for company with no accounts", func(t *testing.T) {
		agg, mock, mockDB := newMockAggregator(t)
		defer mockDB.Close()

		companyID := uuid.New()

		rows := sqlmock.NewRows([]string{"total"}).AddRow("0")
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(balance_base\), 0\) AS total FROM "cash_accounts"`).
			WithArgs(companyID, true).
			WillReturnRows(rows)

		total, err := agg.SumCash(context.Background(), companyID)

		assert.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestGormLedgerAggregator_SumReceivables(t *testing.T) {
	agg, mock, mockDB := newMockAggregator(t)
	defer mockDB.Close()

	companyID := uuid.New()

	rows := sqlmock.NewRows([]string{"total"}).AddRow("75000.00")
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_base\), 0\) AS total FROM "accounts_receivable" WHERE company_id = \$1 AND status IN \(\$2,\$3,\$4,\$5\)`).
		WithArgs(companyID, "OPEN", "OVERDUE", "PARTIALLY_PAID", "DISPUTED").
		WillReturnRows(rows)

	total, err := agg.SumReceivables(context.Background(), companyID)

	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(75000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerAggregator_SumPayables(t *testing.T) {
	agg, mock, mockDB := newMockAggregator(t)
	defer mockDB.Close()

	companyID := uuid.New()

	rows := sqlmock.NewRows([]string{"total"}).AddRow("60000.00")
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_base\), 0\) AS total FROM "accounts_payable" WHERE company_id = \$1 AND status IN \(\$2,\$3,\$4,\$5\)`).
		WithArgs(companyID, "PENDING", "APPROVED", "PARTIALLY_PAID", "OVERDUE").
		WillReturnRows(rows)

	total, err := agg.SumPayables(context.Background(), companyID)

	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(60000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerAggregator_SumInventoryValue(t *testing.T) {
	agg, mock, mockDB := newMockAggregator(t)
	defer mockDB.Close()

	companyID := uuid.New()

	rows := sqlmock.NewRows([]string{"total"}).AddRow("100000.00")
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_value\), 0\) AS total FROM "inventory_items" WHERE company_id = \$1 AND currency_code = \(SELECT currency_code FROM companies WHERE id = \$2\)`).
		WithArgs(companyID, companyID).
		WillReturnRows(rows)

	total, err := agg.SumInventoryValue(context.Background(), companyID)

	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(100000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerAggregator_SumShortTermLiabilities(t *testing.T) {
	agg, mock, mockDB := newMockAggregator(t)
	defer mockDB.Close()

	companyID := uuid.New()

	rows := sqlmock.NewRows([]string{"total"}).AddRow("40000.00")
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_base\), 0\) AS total FROM "short_term_liabilities" WHERE company_id = \$1 AND status = \$2`).
		WithArgs(companyID, "ACTIVE").
		WillReturnRows(rows)

	total, err := agg.SumShortTermLiabilities(context.Background(), companyID)

	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(40000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerAggregator_SumOpenSalesInvoices(t *testing.T) {
	agg, mock, mockDB := newMockAggregator(t)
	defer mockDB.Close()

	companyID := uuid.New()

	rows := sqlmock.NewRows([]string{"total"}).AddRow("450000.00")
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_base\), 0\) AS total FROM "invoices" WHERE company_id = \$1 AND type = \$2 AND status IN \(\$3,\$4,\$5\)`).
		WithArgs(companyID, "SALES", "SENT", "OVERDUE", "PARTIALLY_PAID").
		WillReturnRows(rows)

	total, err := agg.SumOpenSalesInvoices(context.Background(), companyID)

	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(450000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerAggregator_FindPayablesDueBetween(t *testing.T) {
	agg, mock, mockDB := newMockAggregator(t)
	defer mockDB.Close()

	companyID := uuid.New()
	payableID := uuid.New()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	rows := sqlmock.NewRows([]string{"id", "company_id", "vendor_name", "amount", "amount_base", "status"}).
		AddRow(payableID, companyID, "Vendor A", "30000", "30000", "PENDING")

	mock.ExpectQuery(`SELECT \* FROM "accounts_payable" WHERE company_id = \$1 AND due_date BETWEEN \$2 AND \$3 AND status IN \(\$4,\$5,\$6\) ORDER BY due_date`).
		WithArgs(companyID, start, end, "PENDING", "APPROVED", "PARTIALLY_PAID").
		WillReturnRows(rows)

	payables, err := agg.FindPayablesDueBetween(context.Background(), companyID, start, end, ledger.UpcomingPayableStatuses())

	assert.NoError(t, err)
	require.Len(t, payables, 1)
	assert.Equal(t, "Vendor A", payables[0].VendorName)
	assert.Equal(t, ledger.PayableStatusPending, payables[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerAggregator_FindReceivablesOverdueBefore(t *testing.T) {
	agg, mock, mockDB := newMockAggregator(t)
	defer mockDB.Close()

	companyID := uuid.New()
	receivableID := uuid.New()
	before := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "company_id", "customer_name", "amount", "amount_base", "status"}).
		AddRow(receivableID, companyID, "Customer A", "20000", "20000", "OPEN")

	mock.ExpectQuery(`SELECT \* FROM "accounts_receivable" WHERE company_id = \$1 AND due_date < \$2 AND status <> \$3 ORDER BY due_date`).
		WithArgs(companyID, before, "PAID").
		WillReturnRows(rows)

	receivables, err := agg.FindReceivablesOverdueBefore(context.Background(), companyID, before, ledger.ReceivableStatusPaid)

	assert.NoError(t, err)
	require.Len(t, receivables, 1)
	assert.Equal(t, "Customer A", receivables[0].CustomerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
