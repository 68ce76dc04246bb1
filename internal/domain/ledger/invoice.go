package ledger

import (
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes outgoing (receivable) from incoming (payable) invoices
type InvoiceType string

const (
	InvoiceTypeSales    InvoiceType = "SALES"    // Outgoing invoice, money owed to the company
	InvoiceTypePurchase InvoiceType = "PURCHASE" // Incoming invoice, money the company owes
)

// IsValid checks if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeSales || t == InvoiceTypePurchase
}

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}

// ParseInvoiceType parses an invoice type string.
// Returns ErrInvalidInput for unknown values; there is no default.
func ParseInvoiceType(s string) (InvoiceType, error) {
	t := InvoiceType(s)
	if !t.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid invoice type: "+s)
	}
	return t, nil
}

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
	InvoiceStatusDisputed      InvoiceStatus = "DISPUTED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusOverdue,
		InvoiceStatusPartiallyPaid, InvoiceStatusPaid,
		InvoiceStatusCancelled, InvoiceStatusDisputed:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// ParseInvoiceStatus parses an invoice status string.
// Empty and unrecognized inputs both default to SENT; the status column is
// optional on imported invoices and a bad value must not fail the row.
func ParseInvoiceStatus(s string) InvoiceStatus {
	st := InvoiceStatus(s)
	if !st.IsValid() {
		return InvoiceStatusSent
	}
	return st
}

// OpenInvoiceStatuses are the statuses that count an invoice toward the
// trailing flow proxies (credit sales for DSO, purchases for DPO/DIO).
func OpenInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{InvoiceStatusSent, InvoiceStatusOverdue, InvoiceStatusPartiallyPaid}
}

// Invoice is a billed amount owed to or by the company.
// AmountBase is the total converted to the company's reporting currency.
type Invoice struct {
	shared.CompanyEntity
	InvoiceNumber string               `json:"invoice_number"`
	Type          InvoiceType          `json:"type"`
	Status        InvoiceStatus        `json:"status"`
	ContactName   string               `json:"contact_name,omitempty"`
	ContactEmail  string               `json:"contact_email,omitempty"`
	IssueDate     time.Time            `json:"issue_date"`
	DueDate       time.Time            `json:"due_date"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	TaxAmount     decimal.Decimal      `json:"tax_amount"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	CurrencyCode  valueobject.Currency `json:"currency_code"`
	ExchangeRate  decimal.Decimal      `json:"exchange_rate"`
	AmountBase    decimal.Decimal      `json:"total_amount_base_currency"`
	PaymentTerms  string               `json:"payment_terms,omitempty"`
	Notes         string               `json:"notes,omitempty"`
}

// NewInvoice creates a new invoice for the given company
func NewInvoice(companyID uuid.UUID, number string, invType InvoiceType, issueDate, dueDate time.Time, total decimal.Decimal, currency valueobject.Currency) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice number cannot be empty")
	}
	if !invType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid invoice type: "+string(invType))
	}
	return &Invoice{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		InvoiceNumber: number,
		Type:          invType,
		Status:        InvoiceStatusSent,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		TotalAmount:   total,
		CurrencyCode:  currency,
		ExchangeRate:  decimal.NewFromInt(1),
		AmountBase:    total,
	}, nil
}

// IsOpen returns true if the invoice still represents an expected flow
func (i *Invoice) IsOpen() bool {
	switch i.Status {
	case InvoiceStatusSent, InvoiceStatusOverdue, InvoiceStatusPartiallyPaid:
		return true
	}
	return false
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}
