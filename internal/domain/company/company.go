package company

import (
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
)

// CompanyType classifies the business entity
type CompanyType string

const (
	CompanyTypeSME        CompanyType = "SME"
	CompanyTypeEnterprise CompanyType = "ENTERPRISE"
	CompanyTypeStartup    CompanyType = "STARTUP"
)

// IsValid checks if the company type is valid
func (t CompanyType) IsValid() bool {
	switch t {
	case CompanyTypeSME, CompanyTypeEnterprise, CompanyTypeStartup:
		return true
	}
	return false
}

// Company is the aggregate root that owns all ledger records, snapshots and
// alerts. CurrencyCode is the reporting (base) currency: every imported
// amount is converted to it before aggregation.
type Company struct {
	shared.BaseEntity
	Name         string               `json:"name"`
	Type         CompanyType          `json:"type"`
	CurrencyCode valueobject.Currency `json:"currency_code"`
	TaxID        string               `json:"tax_id,omitempty"`
	Industry     string               `json:"industry,omitempty"`
	ContactEmail string               `json:"contact_email,omitempty"`
	Active       bool                 `json:"active"`
}

// NewCompany creates a new company
func NewCompany(name string, companyType CompanyType, currencyCode valueobject.Currency) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if !companyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_COMPANY_TYPE", "Company type is not valid")
	}
	if currencyCode == "" {
		currencyCode = valueobject.DefaultCurrency
	}

	return &Company{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Type:         companyType,
		CurrencyCode: currencyCode,
		Active:       true,
	}, nil
}

// Deactivate marks the company inactive. Inactive companies keep their data
// but are skipped by scheduled jobs.
func (c *Company) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}
