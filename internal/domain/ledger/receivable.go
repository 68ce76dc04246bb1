package ledger

import (
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableStatus represents the collection state of an accounts receivable
type ReceivableStatus string

const (
	ReceivableStatusOpen          ReceivableStatus = "OPEN"
	ReceivableStatusOverdue       ReceivableStatus = "OVERDUE"
	ReceivableStatusPartiallyPaid ReceivableStatus = "PARTIALLY_PAID"
	ReceivableStatusPaid          ReceivableStatus = "PAID"
	ReceivableStatusDisputed      ReceivableStatus = "DISPUTED"
	ReceivableStatusWrittenOff    ReceivableStatus = "WRITTEN_OFF"
)

// IsValid checks if the status is a valid ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusOpen, ReceivableStatusOverdue, ReceivableStatusPartiallyPaid,
		ReceivableStatusPaid, ReceivableStatusDisputed, ReceivableStatusWrittenOff:
		return true
	}
	return false
}

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

// ParseReceivableStatus parses a receivable status string.
// Returns ErrInvalidInput for unknown values; there is no default.
func ParseReceivableStatus(s string) (ReceivableStatus, error) {
	st := ReceivableStatus(s)
	if !st.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid receivable status: "+s)
	}
	return st, nil
}

// CountsAsOutstanding returns true if the receivable contributes to the
// accounts receivable balance.
func (s ReceivableStatus) CountsAsOutstanding() bool {
	switch s {
	case ReceivableStatusOpen, ReceivableStatusOverdue, ReceivableStatusPartiallyPaid, ReceivableStatusDisputed:
		return true
	}
	return false
}

// IsExpectedInflow returns true if the receivable counts toward projected
// cash inflows. Disputed receivables are outstanding but not expected.
func (s ReceivableStatus) IsExpectedInflow() bool {
	return s == ReceivableStatusOpen || s == ReceivableStatusPartiallyPaid
}

// AccountsReceivable is money a customer owes the company.
// AmountBase is the amount converted to the company's reporting currency.
type AccountsReceivable struct {
	shared.CompanyEntity
	CustomerName  string               `json:"customer_name"`
	InvoiceNumber string               `json:"invoice_number,omitempty"`
	InvoiceDate   time.Time            `json:"invoice_date"`
	DueDate       time.Time            `json:"due_date"`
	Amount        decimal.Decimal      `json:"amount"`
	CurrencyCode  valueobject.Currency `json:"currency_code"`
	ExchangeRate  decimal.Decimal      `json:"exchange_rate"`
	AmountBase    decimal.Decimal      `json:"amount_base_currency"`
	Status        ReceivableStatus     `json:"status"`
	PaymentTerms  string               `json:"payment_terms,omitempty"`
	Notes         string               `json:"notes,omitempty"`
}

// NewAccountsReceivable creates a new receivable for the given company
func NewAccountsReceivable(companyID uuid.UUID, customerName string, amount decimal.Decimal, currency valueobject.Currency, dueDate time.Time, status ReceivableStatus) (*AccountsReceivable, error) {
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid receivable status: "+string(status))
	}
	return &AccountsReceivable{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		CustomerName:  customerName,
		Amount:        amount,
		CurrencyCode:  currency,
		ExchangeRate:  decimal.NewFromInt(1),
		AmountBase:    amount,
		DueDate:       dueDate,
		Status:        status,
	}, nil
}

// IsOverdueAsOf returns true if the receivable is unpaid past its due date
func (r *AccountsReceivable) IsOverdueAsOf(date time.Time) bool {
	return r.Status != ReceivableStatusPaid && r.DueDate.Before(date)
}

// TableName returns the table name for GORM
func (AccountsReceivable) TableName() string {
	return "accounts_receivable"
}
