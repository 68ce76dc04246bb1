package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregator is the read-side query contract the analytics and alerting
// services consume. Sums are over base-currency amounts; implementations
// return zero (not an error) when a company has no matching rows.
type Aggregator interface {
	// SumCash sums balances of active cash accounts.
	SumCash(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)

	// SumReceivables sums receivables in an outstanding status
	// (OPEN, OVERDUE, PARTIALLY_PAID, DISPUTED).
	SumReceivables(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)

	// SumPayables sums payables in an outstanding status
	// (PENDING, APPROVED, PARTIALLY_PAID, OVERDUE).
	SumPayables(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)

	// SumInventoryValue sums total values of items priced in the
	// company's reporting currency.
	SumInventoryValue(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)

	// SumShortTermLiabilities sums ACTIVE short-term liabilities.
	SumShortTermLiabilities(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)

	// SumOpenSalesInvoices sums open SALES invoices; the trailing
	// credit-sales flow proxy for DSO.
	SumOpenSalesInvoices(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)

	// SumOpenPurchaseInvoices sums open PURCHASE invoices; the trailing
	// purchases flow proxy for DPO and DIO.
	SumOpenPurchaseInvoices(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)

	// FindPayablesDueBetween returns payables due in [start, end] whose
	// status is one of the given statuses.
	FindPayablesDueBetween(ctx context.Context, companyID uuid.UUID, start, end time.Time, statuses []PayableStatus) ([]AccountsPayable, error)

	// FindReceivablesOverdueBefore returns receivables due before the given
	// date, excluding the given status.
	FindReceivablesOverdueBefore(ctx context.Context, companyID uuid.UUID, before time.Time, excluded ReceivableStatus) ([]AccountsReceivable, error)
}

// TransactionRepository persists imported transactions
type TransactionRepository interface {
	Save(ctx context.Context, t *Transaction) error
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]Transaction, error)
}

// InvoiceRepository persists imported invoices
type InvoiceRepository interface {
	Save(ctx context.Context, i *Invoice) error
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]Invoice, error)
}

// ReceivableRepository persists imported receivables
type ReceivableRepository interface {
	Save(ctx context.Context, r *AccountsReceivable) error
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]AccountsReceivable, error)
}

// PayableRepository persists imported payables
type PayableRepository interface {
	Save(ctx context.Context, p *AccountsPayable) error
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]AccountsPayable, error)
}

// InventoryRepository persists imported inventory items
type InventoryRepository interface {
	Save(ctx context.Context, item *InventoryItem) error
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]InventoryItem, error)
}

// CashAccountRepository persists cash accounts
type CashAccountRepository interface {
	Save(ctx context.Context, a *CashAccount) error
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]CashAccount, error)
}

// LiabilityRepository persists short-term liabilities
type LiabilityRepository interface {
	Save(ctx context.Context, l *ShortTermLiability) error
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]ShortTermLiability, error)
}
