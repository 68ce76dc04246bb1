package persistence

import (
	"context"
	"time"

	"github.com/fintech/wcm/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerAggregator implements ledger.Aggregator with SQL aggregate
// queries over base-currency amounts. All sums COALESCE to zero so a
// company with no rows reads as zero, not as an error.
type GormLedgerAggregator struct {
	db *gorm.DB
}

// NewGormLedgerAggregator creates a new GormLedgerAggregator
func NewGormLedgerAggregator(db *gorm.DB) *GormLedgerAggregator {
	return &GormLedgerAggregator{db: db}
}

func (a *GormLedgerAggregator) sum(query *gorm.DB, column string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := query.Select("COALESCE(SUM(" + column + "), 0) AS total").Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumCash sums balances of active cash accounts
func (a *GormLedgerAggregator) SumCash(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	query := a.db.WithContext(ctx).
		Model(&ledger.CashAccount{}).
		Where("company_id = ? AND active = ?", companyID, true)
	return a.sum(query, "balance_base")
}

// SumReceivables sums receivables in an outstanding status
func (a *GormLedgerAggregator) SumReceivables(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	query := a.db.WithContext(ctx).
		Model(&ledger.AccountsReceivable{}).
		Where("company_id = ? AND status IN ?", companyID, []ledger.ReceivableStatus{
			ledger.ReceivableStatusOpen,
			ledger.ReceivableStatusOverdue,
			ledger.ReceivableStatusPartiallyPaid,
			ledger.ReceivableStatusDisputed,
		})
	return a.sum(query, "amount_base")
}

// SumPayables sums payables in an outstanding status
func (a *GormLedgerAggregator) SumPayables(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	query := a.db.WithContext(ctx).
		Model(&ledger.AccountsPayable{}).
		Where("company_id = ? AND status IN ?", companyID, []ledger.PayableStatus{
			ledger.PayableStatusPending,
			ledger.PayableStatusApproved,
			ledger.PayableStatusPartiallyPaid,
			ledger.PayableStatusOverdue,
		})
	return a.sum(query, "amount_base")
}

// SumInventoryValue sums total values of items priced in the company's
// reporting currency. Items in other currencies carry no exchange rate,
// so they are excluded rather than mis-summed.
func (a *GormLedgerAggregator) SumInventoryValue(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	query := a.db.WithContext(ctx).
		Model(&ledger.InventoryItem{}).
		Where("company_id = ? AND currency_code = (SELECT currency_code FROM companies WHERE id = ?)", companyID, companyID)
	return a.sum(query, "total_value")
}

// SumShortTermLiabilities sums ACTIVE short-term liabilities
func (a *GormLedgerAggregator) SumShortTermLiabilities(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	query := a.db.WithContext(ctx).
		Model(&ledger.ShortTermLiability{}).
		Where("company_id = ? AND status = ?", companyID, ledger.LiabilityStatusActive)
	return a.sum(query, "amount_base")
}

// SumOpenSalesInvoices sums open SALES invoices
func (a *GormLedgerAggregator) SumOpenSalesInvoices(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	return a.sumOpenInvoices(ctx, companyID, ledger.InvoiceTypeSales)
}

// SumOpenPurchaseInvoices sums open PURCHASE invoices
func (a *GormLedgerAggregator) SumOpenPurchaseInvoices(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	return a.sumOpenInvoices(ctx, companyID, ledger.InvoiceTypePurchase)
}

func (a *GormLedgerAggregator) sumOpenInvoices(ctx context.Context, companyID uuid.UUID, invType ledger.InvoiceType) (decimal.Decimal, error) {
	query := a.db.WithContext(ctx).
		Model(&ledger.Invoice{}).
		Where("company_id = ? AND type = ? AND status IN ?", companyID, invType, ledger.OpenInvoiceStatuses())
	return a.sum(query, "amount_base")
}

// FindPayablesDueBetween returns payables due in [start, end] with one of
// the given statuses, ordered by due date
func (a *GormLedgerAggregator) FindPayablesDueBetween(ctx context.Context, companyID uuid.UUID, start, end time.Time, statuses []ledger.PayableStatus) ([]ledger.AccountsPayable, error) {
	var payables []ledger.AccountsPayable
	if err := a.db.WithContext(ctx).
		Where("company_id = ? AND due_date BETWEEN ? AND ? AND status IN ?", companyID, start, end, statuses).
		Order("due_date").
		Find(&payables).Error; err != nil {
		return nil, err
	}
	return payables, nil
}

// FindReceivablesOverdueBefore returns receivables due before the given
// date excluding the given status, ordered by due date
func (a *GormLedgerAggregator) FindReceivablesOverdueBefore(ctx context.Context, companyID uuid.UUID, before time.Time, excluded ledger.ReceivableStatus) ([]ledger.AccountsReceivable, error) {
	var receivables []ledger.AccountsReceivable
	if err := a.db.WithContext(ctx).
		Where("company_id = ? AND due_date < ? AND status <> ?", companyID, before, excluded).
		Order("due_date").
		Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}
