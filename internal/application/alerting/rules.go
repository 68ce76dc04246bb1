package alerting

import (
	"github.com/fintech/wcm/internal/domain/alert"
	"github.com/fintech/wcm/internal/domain/metrics"
	"github.com/shopspring/decimal"
)

// family groups rules that are generated together
type family string

const (
	familyCashGap             family = "cash_gap"
	familyLiquidity           family = "liquidity"
	familyWorkingCapitalRatio family = "working_capital_ratio"
	familyCashConversion      family = "cash_conversion"
)

// ruleFacts carries the evaluated metrics a rule can reference. The cash
// projection is only populated for the cash gap family; rules that need it
// report absent when it is missing.
type ruleFacts struct {
	snapshot      *metrics.WorkingCapitalSnapshot
	projectedCash decimal.Decimal
	hasProjection bool
}

// rule is one row of the declarative alert table. A rule fires when its
// metric is present and match returns true; firing inserts a new alert row
// every run, duplicates included.
type rule struct {
	family    family
	metric    string
	alertType alert.Type
	severity  alert.Severity
	threshold decimal.Decimal
	title     string
	message   string // fmt template receiving the observed value
	extract   func(f *ruleFacts) (decimal.Decimal, bool)
	match     func(value decimal.Decimal) bool
}

// Rule thresholds
var (
	zero = decimal.Zero

	minCashReserve = decimal.NewFromInt(10000)

	criticalCurrentRatio    = decimal.NewFromInt(1)
	comfortableCurrentRatio = decimal.NewFromFloat(1.5)
	criticalQuickRatio      = decimal.NewFromInt(1)
	minCashRatio            = decimal.NewFromFloat(0.2)

	maxCashConversionCycle = decimal.NewFromInt(90)
	maxDaysSales           = decimal.NewFromInt(45)
	minDaysPayable         = decimal.NewFromInt(30)
	maxDaysInventory       = decimal.NewFromInt(60)
)

func lessThan(threshold decimal.Decimal) func(decimal.Decimal) bool {
	return func(v decimal.Decimal) bool { return v.LessThan(threshold) }
}

func greaterThan(threshold decimal.Decimal) func(decimal.Decimal) bool {
	return func(v decimal.Decimal) bool { return v.GreaterThan(threshold) }
}

func between(low, high decimal.Decimal) func(decimal.Decimal) bool {
	return func(v decimal.Decimal) bool {
		return v.GreaterThanOrEqual(low) && v.LessThan(high)
	}
}

func positiveBelow(threshold decimal.Decimal) func(decimal.Decimal) bool {
	return func(v decimal.Decimal) bool {
		return v.IsPositive() && v.LessThan(threshold)
	}
}

func projectedCash(f *ruleFacts) (decimal.Decimal, bool) {
	return f.projectedCash, f.hasProjection
}

func cashOnHand(f *ruleFacts) (decimal.Decimal, bool) {
	return f.snapshot.CashAndEquivalents, true
}

func currentRatio(f *ruleFacts) (decimal.Decimal, bool) {
	if f.snapshot.CurrentRatio == nil {
		return decimal.Decimal{}, false
	}
	return *f.snapshot.CurrentRatio, true
}

func quickRatio(f *ruleFacts) (decimal.Decimal, bool) {
	if f.snapshot.QuickRatio == nil {
		return decimal.Decimal{}, false
	}
	return *f.snapshot.QuickRatio, true
}

func cashRatio(f *ruleFacts) (decimal.Decimal, bool) {
	if f.snapshot.CashRatio == nil {
		return decimal.Decimal{}, false
	}
	return *f.snapshot.CashRatio, true
}

func netWorkingCapital(f *ruleFacts) (decimal.Decimal, bool) {
	return f.snapshot.NetWorkingCapital, true
}

// currentRatioExInventory recomputes the current ratio from the raw
// aggregates with inventory excluded, so illiquid stock cannot mask a
// working capital problem.
func currentRatioExInventory(f *ruleFacts) (decimal.Decimal, bool) {
	return metrics.QuickRatio(
		f.snapshot.TotalCurrentAssets,
		f.snapshot.Inventory,
		f.snapshot.TotalCurrentLiabilities,
	)
}

func cashConversionCycle(f *ruleFacts) (decimal.Decimal, bool) {
	return f.snapshot.CashConversionCycle, true
}

func daysSalesOutstanding(f *ruleFacts) (decimal.Decimal, bool) {
	return f.snapshot.DaysSalesOutstanding, true
}

func daysPayableOutstanding(f *ruleFacts) (decimal.Decimal, bool) {
	return f.snapshot.DaysPayableOutstanding, true
}

func daysInventoryOutstanding(f *ruleFacts) (decimal.Decimal, bool) {
	return f.snapshot.DaysInventoryOutstanding, true
}

// alertRules is the full rule table. Evaluation order within a family is the
// table order, so generated alerts are deterministic for a given snapshot.
var alertRules = []rule{
	{
		family:    familyCashGap,
		metric:    "projected_cash_position",
		alertType: alert.TypeCashGap,
		severity:  alert.SeverityHigh,
		threshold: zero,
		title:     "Projected cash gap",
		message:   "Projected cash position over the next 30 days is %s. Expected outflows exceed cash on hand plus expected inflows.",
		extract:   projectedCash,
		match:     lessThan(zero),
	},
	{
		family:    familyCashGap,
		metric:    "cash_and_equivalents",
		alertType: alert.TypeCashGap,
		severity:  alert.SeverityMedium,
		threshold: minCashReserve,
		title:     "Low cash reserves",
		message:   "Cash and equivalents are %s, below the 10000 reserve floor.",
		extract:   cashOnHand,
		match:     lessThan(minCashReserve),
	},
	{
		family:    familyLiquidity,
		metric:    "current_ratio",
		alertType: alert.TypeLiquidityIssue,
		severity:  alert.SeverityCritical,
		threshold: criticalCurrentRatio,
		title:     "Critical liquidity issue",
		message:   "Current ratio is %s. Current liabilities exceed current assets.",
		extract:   currentRatio,
		match:     lessThan(criticalCurrentRatio),
	},
	{
		family:    familyLiquidity,
		metric:    "current_ratio",
		alertType: alert.TypeLiquidityIssue,
		severity:  alert.SeverityMedium,
		threshold: comfortableCurrentRatio,
		title:     "Thin liquidity buffer",
		message:   "Current ratio is %s, below the comfortable level of 1.5.",
		extract:   currentRatio,
		match:     between(criticalCurrentRatio, comfortableCurrentRatio),
	},
	{
		family:    familyLiquidity,
		metric:    "quick_ratio",
		alertType: alert.TypeLiquidityIssue,
		severity:  alert.SeverityHigh,
		threshold: criticalQuickRatio,
		title:     "Quick ratio below 1.0",
		message:   "Quick ratio is %s. Liquid assets do not cover current liabilities without selling inventory.",
		extract:   quickRatio,
		match:     lessThan(criticalQuickRatio),
	},
	{
		family:    familyLiquidity,
		metric:    "cash_ratio",
		alertType: alert.TypeLiquidityIssue,
		severity:  alert.SeverityMedium,
		threshold: minCashRatio,
		title:     "Low cash ratio",
		message:   "Cash ratio is %s, below 0.2. Immediate obligations rely on collections.",
		extract:   cashRatio,
		match:     lessThan(minCashRatio),
	},
	{
		family:    familyWorkingCapitalRatio,
		metric:    "net_working_capital",
		alertType: alert.TypeWorkingCapitalRatio,
		severity:  alert.SeverityCritical,
		threshold: zero,
		title:     "Negative working capital",
		message:   "Net working capital is %s. The company owes more short-term than it owns short-term.",
		extract:   netWorkingCapital,
		match:     lessThan(zero),
	},
	{
		family:    familyWorkingCapitalRatio,
		metric:    "current_ratio_ex_inventory",
		alertType: alert.TypeWorkingCapitalRatio,
		severity:  alert.SeverityCritical,
		threshold: criticalCurrentRatio,
		title:     "Working capital dependent on inventory",
		message:   "Excluding inventory, the current ratio drops to %s. Solvency depends on moving stock.",
		extract:   currentRatioExInventory,
		match:     lessThan(criticalCurrentRatio),
	},
	{
		family:    familyCashConversion,
		metric:    "cash_conversion_cycle",
		alertType: alert.TypeCCCIssue,
		severity:  alert.SeverityHigh,
		threshold: maxCashConversionCycle,
		title:     "Long cash conversion cycle",
		message:   "Cash conversion cycle is %s days, above the 90 day ceiling.",
		extract:   cashConversionCycle,
		match:     greaterThan(maxCashConversionCycle),
	},
	{
		family:    familyCashConversion,
		metric:    "days_sales_outstanding",
		alertType: alert.TypeCCCIssue,
		severity:  alert.SeverityMedium,
		threshold: maxDaysSales,
		title:     "Slow receivable collection",
		message:   "Days sales outstanding is %s, above 45 days.",
		extract:   daysSalesOutstanding,
		match:     greaterThan(maxDaysSales),
	},
	{
		family:    familyCashConversion,
		metric:    "days_payable_outstanding",
		alertType: alert.TypeCCCIssue,
		severity:  alert.SeverityLow,
		threshold: minDaysPayable,
		title:     "Paying suppliers early",
		message:   "Days payable outstanding is %s, below 30 days. Supplier credit is underused.",
		extract:   daysPayableOutstanding,
		match:     positiveBelow(minDaysPayable),
	},
	{
		family:    familyCashConversion,
		metric:    "days_inventory_outstanding",
		alertType: alert.TypeCCCIssue,
		severity:  alert.SeverityMedium,
		threshold: maxDaysInventory,
		title:     "Slow-moving inventory",
		message:   "Days inventory outstanding is %s, above 60 days.",
		extract:   daysInventoryOutstanding,
		match:     greaterThan(maxDaysInventory),
	},
}

// rulesForFamily returns the table rows belonging to one family
func rulesForFamily(f family) []rule {
	var out []rule
	for _, r := range alertRules {
		if r.family == f {
			out = append(out, r)
		}
	}
	return out
}
