package ledger

import (
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LiabilityType classifies a short-term obligation
type LiabilityType string

const (
	LiabilityTypeShortTermLoan   LiabilityType = "SHORT_TERM_LOAN"
	LiabilityTypeLineOfCredit    LiabilityType = "LINE_OF_CREDIT"
	LiabilityTypeCreditCard      LiabilityType = "CREDIT_CARD"
	LiabilityTypeTaxPayable      LiabilityType = "TAX_PAYABLE"
	LiabilityTypeWagesPayable    LiabilityType = "WAGES_PAYABLE"
	LiabilityTypeDeferredRevenue LiabilityType = "DEFERRED_REVENUE"
	LiabilityTypeInterestPayable LiabilityType = "INTEREST_PAYABLE"
	LiabilityTypeOther           LiabilityType = "OTHER"
)

// IsValid checks if the liability type is valid
func (t LiabilityType) IsValid() bool {
	switch t {
	case LiabilityTypeShortTermLoan, LiabilityTypeLineOfCredit, LiabilityTypeCreditCard,
		LiabilityTypeTaxPayable, LiabilityTypeWagesPayable, LiabilityTypeDeferredRevenue,
		LiabilityTypeInterestPayable, LiabilityTypeOther:
		return true
	}
	return false
}

// LiabilityStatus represents the settlement state of a short-term liability
type LiabilityStatus string

const (
	LiabilityStatusActive       LiabilityStatus = "ACTIVE"
	LiabilityStatusPaid         LiabilityStatus = "PAID"
	LiabilityStatusOverdue      LiabilityStatus = "OVERDUE"
	LiabilityStatusDisputed     LiabilityStatus = "DISPUTED"
	LiabilityStatusRenegotiated LiabilityStatus = "RENEGOTIATED"
)

// IsValid checks if the status is a valid LiabilityStatus
func (s LiabilityStatus) IsValid() bool {
	switch s {
	case LiabilityStatusActive, LiabilityStatusPaid, LiabilityStatusOverdue,
		LiabilityStatusDisputed, LiabilityStatusRenegotiated:
		return true
	}
	return false
}

// ShortTermLiability is a non-trade obligation due within the operating
// cycle. Only ACTIVE liabilities count toward the short-term debt aggregate.
type ShortTermLiability struct {
	shared.CompanyEntity
	Description  string               `json:"description"`
	Type         LiabilityType        `json:"type"`
	Amount       decimal.Decimal      `json:"amount"`
	CurrencyCode valueobject.Currency `json:"currency_code"`
	ExchangeRate decimal.Decimal      `json:"exchange_rate"`
	AmountBase   decimal.Decimal      `json:"amount_base_currency"`
	DueDate      time.Time            `json:"due_date"`
	InterestRate decimal.Decimal      `json:"interest_rate"`
	Creditor     string               `json:"creditor,omitempty"`
	Status       LiabilityStatus      `json:"status"`
	Notes        string               `json:"notes,omitempty"`
}

// NewShortTermLiability creates a new active liability for the given company
func NewShortTermLiability(companyID uuid.UUID, description string, liabilityType LiabilityType, amount decimal.Decimal, currency valueobject.Currency, dueDate time.Time) (*ShortTermLiability, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Liability description cannot be empty")
	}
	if !liabilityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid liability type: "+string(liabilityType))
	}
	return &ShortTermLiability{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Description:   description,
		Type:          liabilityType,
		Amount:        amount,
		CurrencyCode:  currency,
		ExchangeRate:  decimal.NewFromInt(1),
		AmountBase:    amount,
		DueDate:       dueDate,
		Status:        LiabilityStatusActive,
	}, nil
}

// TableName returns the table name for GORM
func (ShortTermLiability) TableName() string {
	return "short_term_liabilities"
}
