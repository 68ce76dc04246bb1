package metrics

import (
	"strings"
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Interval is the granularity of a historical metrics series
type Interval string

const (
	IntervalDaily   Interval = "DAILY"
	IntervalWeekly  Interval = "WEEKLY"
	IntervalMonthly Interval = "MONTHLY"
)

// ParseInterval parses an interval string (case-insensitive).
// Returns ErrInvalidInput for anything other than DAILY, WEEKLY or MONTHLY.
func ParseInterval(s string) (Interval, error) {
	switch Interval(strings.ToUpper(s)) {
	case IntervalDaily:
		return IntervalDaily, nil
	case IntervalWeekly:
		return IntervalWeekly, nil
	case IntervalMonthly:
		return IntervalMonthly, nil
	}
	return "", shared.NewDomainError("INVALID_INPUT", "Invalid interval: "+s+". Valid values are DAILY, WEEKLY, MONTHLY")
}

// WorkingCapitalSnapshot is a point-in-time bundle of ledger aggregates and
// derived liquidity metrics for one company. It is a value object: built
// once, never mutated.
//
// Ratio fields are nil when the ratio is undefined (zero denominator); the
// day metrics (DSO/DPO/DIO/CCC) default to zero when their flow proxy is
// missing, matching the upstream accounting system's behavior.
type WorkingCapitalSnapshot struct {
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name"`
	AsOfDate    time.Time `json:"as_of_date"`

	CashAndEquivalents decimal.Decimal `json:"cash_and_equivalents"`
	AccountsReceivable decimal.Decimal `json:"accounts_receivable"`
	Inventory          decimal.Decimal `json:"inventory"`
	TotalCurrentAssets decimal.Decimal `json:"total_current_assets"`

	AccountsPayable         decimal.Decimal `json:"accounts_payable"`
	ShortTermDebt           decimal.Decimal `json:"short_term_debt"`
	TotalCurrentLiabilities decimal.Decimal `json:"total_current_liabilities"`

	NetWorkingCapital decimal.Decimal  `json:"net_working_capital"`
	CurrentRatio      *decimal.Decimal `json:"current_ratio,omitempty"`
	QuickRatio        *decimal.Decimal `json:"quick_ratio,omitempty"`
	CashRatio         *decimal.Decimal `json:"cash_ratio,omitempty"`

	DaysSalesOutstanding     decimal.Decimal `json:"days_sales_outstanding"`
	DaysPayableOutstanding   decimal.Decimal `json:"days_payable_outstanding"`
	DaysInventoryOutstanding decimal.Decimal `json:"days_inventory_outstanding"`
	CashConversionCycle      decimal.Decimal `json:"cash_conversion_cycle"`
}

// HasLiquidityRatios returns true if the ratio fields are defined
// (i.e. the company had non-zero current liabilities).
func (s *WorkingCapitalSnapshot) HasLiquidityRatios() bool {
	return s.CurrentRatio != nil
}
