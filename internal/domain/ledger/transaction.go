package ledger

import (
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of cash movement a transaction records
type TransactionType string

const (
	TransactionTypeIncome          TransactionType = "INCOME"
	TransactionTypeExpense         TransactionType = "EXPENSE"
	TransactionTypeTransfer        TransactionType = "TRANSFER"
	TransactionTypePaymentReceived TransactionType = "PAYMENT_RECEIVED"
	TransactionTypePaymentSent     TransactionType = "PAYMENT_SENT"
	TransactionTypeRefund          TransactionType = "REFUND"
	TransactionTypeOther           TransactionType = "OTHER"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer,
		TransactionTypePaymentReceived, TransactionTypePaymentSent,
		TransactionTypeRefund, TransactionTypeOther:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// ParseTransactionType parses a transaction type string.
// Returns ErrInvalidInput for unknown values; there is no default.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid transaction type: "+s)
	}
	return t, nil
}

// Transaction is a single dated cash movement belonging to a company.
// AmountBase is the amount converted to the company's reporting currency;
// it is what every aggregate query sums.
type Transaction struct {
	shared.CompanyEntity
	TransactionDate time.Time            `json:"transaction_date"`
	Type            TransactionType      `json:"type"`
	Description     string               `json:"description"`
	Amount          decimal.Decimal      `json:"amount"`
	CurrencyCode    valueobject.Currency `json:"currency_code"`
	ExchangeRate    decimal.Decimal      `json:"exchange_rate"`
	AmountBase      decimal.Decimal      `json:"amount_base_currency"`
	ReferenceNumber string               `json:"reference_number,omitempty"`
	Category        string               `json:"category,omitempty"`
	Notes           string               `json:"notes,omitempty"`
}

// NewTransaction creates a new transaction for the given company
func NewTransaction(companyID uuid.UUID, date time.Time, txType TransactionType, description string, amount decimal.Decimal, currency valueobject.Currency) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid transaction type: "+string(txType))
	}
	return &Transaction{
		CompanyEntity:   shared.NewCompanyEntity(companyID),
		TransactionDate: date,
		Type:            txType,
		Description:     description,
		Amount:          amount,
		CurrencyCode:    currency,
		ExchangeRate:    decimal.NewFromInt(1),
		AmountBase:      amount,
	}, nil
}

// IsInflow returns true if the transaction increases cash
func (t *Transaction) IsInflow() bool {
	return t.Type == TransactionTypeIncome || t.Type == TransactionTypePaymentReceived || t.Type == TransactionTypeRefund
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}
