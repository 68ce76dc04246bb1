package ledger

import (
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableStatus represents the settlement state of an accounts payable
type PayableStatus string

const (
	PayableStatusPending       PayableStatus = "PENDING"
	PayableStatusApproved      PayableStatus = "APPROVED"
	PayableStatusPartiallyPaid PayableStatus = "PARTIALLY_PAID"
	PayableStatusPaid          PayableStatus = "PAID"
	PayableStatusOverdue       PayableStatus = "OVERDUE"
	PayableStatusDisputed      PayableStatus = "DISPUTED"
)

// IsValid checks if the status is a valid PayableStatus
func (s PayableStatus) IsValid() bool {
	switch s {
	case PayableStatusPending, PayableStatusApproved, PayableStatusPartiallyPaid,
		PayableStatusPaid, PayableStatusOverdue, PayableStatusDisputed:
		return true
	}
	return false
}

// String returns the string representation of PayableStatus
func (s PayableStatus) String() string {
	return string(s)
}

// ParsePayableStatus parses a payable status string.
// Returns ErrInvalidInput for unknown values; there is no default.
func ParsePayableStatus(s string) (PayableStatus, error) {
	st := PayableStatus(s)
	if !st.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid payable status: "+s)
	}
	return st, nil
}

// CountsAsOutstanding returns true if the payable contributes to the
// accounts payable balance.
func (s PayableStatus) CountsAsOutstanding() bool {
	switch s {
	case PayableStatusPending, PayableStatusApproved, PayableStatusPartiallyPaid, PayableStatusOverdue:
		return true
	}
	return false
}

// UnpaidPayableStatuses are the statuses that count a payable toward
// projected cash outflows.
func UnpaidPayableStatuses() []PayableStatus {
	return []PayableStatus{PayableStatusPending, PayableStatusApproved, PayableStatusPartiallyPaid, PayableStatusOverdue}
}

// UpcomingPayableStatuses are the statuses counted in the dashboard's 30-day
// payables outlook. Overdue payables are excluded there: they are past
// obligations, not upcoming ones.
func UpcomingPayableStatuses() []PayableStatus {
	return []PayableStatus{PayableStatusPending, PayableStatusApproved, PayableStatusPartiallyPaid}
}

// AccountsPayable is money the company owes a vendor.
// AmountBase is the amount converted to the company's reporting currency.
type AccountsPayable struct {
	shared.CompanyEntity
	VendorName    string               `json:"vendor_name"`
	InvoiceNumber string               `json:"invoice_number,omitempty"`
	InvoiceDate   time.Time            `json:"invoice_date"`
	DueDate       time.Time            `json:"due_date"`
	Amount        decimal.Decimal      `json:"amount"`
	CurrencyCode  valueobject.Currency `json:"currency_code"`
	ExchangeRate  decimal.Decimal      `json:"exchange_rate"`
	AmountBase    decimal.Decimal      `json:"amount_base_currency"`
	Status        PayableStatus        `json:"status"`
	Category      string               `json:"category,omitempty"`
	PaymentTerms  string               `json:"payment_terms,omitempty"`
	Notes         string               `json:"notes,omitempty"`
}

// NewAccountsPayable creates a new payable for the given company
func NewAccountsPayable(companyID uuid.UUID, vendorName string, amount decimal.Decimal, currency valueobject.Currency, dueDate time.Time, status PayableStatus) (*AccountsPayable, error) {
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Vendor name cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid payable status: "+string(status))
	}
	return &AccountsPayable{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		VendorName:    vendorName,
		Amount:        amount,
		CurrencyCode:  currency,
		ExchangeRate:  decimal.NewFromInt(1),
		AmountBase:    amount,
		DueDate:       dueDate,
		Status:        status,
	}, nil
}

// TableName returns the table name for GORM
func (AccountsPayable) TableName() string {
	return "accounts_payable"
}
