package ledger

import (
	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies a cash account
type AccountType string

const (
	AccountTypeChecking       AccountType = "CHECKING"
	AccountTypeSavings        AccountType = "SAVINGS"
	AccountTypeMoneyMarket    AccountType = "MONEY_MARKET"
	AccountTypeCashManagement AccountType = "CASH_MANAGEMENT"
	AccountTypeTermDeposit    AccountType = "TERM_DEPOSIT"
	AccountTypeOther          AccountType = "OTHER"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeMoneyMarket,
		AccountTypeCashManagement, AccountTypeTermDeposit, AccountTypeOther:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// CashAccount is a bank or cash-equivalent account. BalanceBase is the
// balance converted to the company's reporting currency; only active
// accounts count toward the cash aggregate.
type CashAccount struct {
	shared.CompanyEntity
	AccountName   string               `json:"account_name"`
	AccountNumber string               `json:"account_number,omitempty"`
	Type          AccountType          `json:"type"`
	BankName      string               `json:"bank_name,omitempty"`
	Balance       decimal.Decimal      `json:"balance"`
	CurrencyCode  valueobject.Currency `json:"currency_code"`
	ExchangeRate  decimal.Decimal      `json:"exchange_rate"`
	BalanceBase   decimal.Decimal      `json:"balance_base_currency"`
	Active        bool                 `json:"active"`
	Notes         string               `json:"notes,omitempty"`
}

// NewCashAccount creates a new active cash account for the given company
func NewCashAccount(companyID uuid.UUID, name string, accountType AccountType, balance decimal.Decimal, currency valueobject.Currency) (*CashAccount, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid account type: "+string(accountType))
	}
	return &CashAccount{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		AccountName:   name,
		Type:          accountType,
		Balance:       balance,
		CurrencyCode:  currency,
		ExchangeRate:  decimal.NewFromInt(1),
		BalanceBase:   balance,
		Active:        true,
	}, nil
}

// TableName returns the table name for GORM
func (CashAccount) TableName() string {
	return "cash_accounts"
}
