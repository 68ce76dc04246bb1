package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Financial ratio scales. Ratios are reported at 2 fractional digits with
// half-up rounding; intermediate daily rates keep 6 digits so the final
// rounding does not compound error. Given identical decimal inputs the
// results are reproducible bit-for-bit.
const (
	ratioScale        int32 = 2
	intermediateScale int32 = 6
)

// NetWorkingCapital returns current assets minus current liabilities.
func NetWorkingCapital(currentAssets, currentLiabilities decimal.Decimal) decimal.Decimal {
	return currentAssets.Sub(currentLiabilities)
}

// CurrentRatio returns current assets over current liabilities.
// Undefined (ok=false) when current liabilities are zero.
func CurrentRatio(currentAssets, currentLiabilities decimal.Decimal) (decimal.Decimal, bool) {
	if currentLiabilities.IsZero() {
		return decimal.Decimal{}, false
	}
	return currentAssets.DivRound(currentLiabilities, ratioScale), true
}

// QuickRatio returns (current assets - inventory) over current liabilities.
// Undefined when current liabilities are zero.
func QuickRatio(currentAssets, inventory, currentLiabilities decimal.Decimal) (decimal.Decimal, bool) {
	if currentLiabilities.IsZero() {
		return decimal.Decimal{}, false
	}
	quickAssets := currentAssets.Sub(inventory)
	return quickAssets.DivRound(currentLiabilities, ratioScale), true
}

// CashRatio returns cash and equivalents over current liabilities.
// Undefined when current liabilities are zero.
func CashRatio(cashAndEquivalents, currentLiabilities decimal.Decimal) (decimal.Decimal, bool) {
	if currentLiabilities.IsZero() {
		return decimal.Decimal{}, false
	}
	return cashAndEquivalents.DivRound(currentLiabilities, ratioScale), true
}

// DaysSalesOutstanding returns how many days of credit sales are tied up in
// receivables: receivables / (creditSales / days). Undefined when credit
// sales are zero.
func DaysSalesOutstanding(accountsReceivable, creditSales decimal.Decimal, days int) (decimal.Decimal, bool) {
	if creditSales.IsZero() {
		return decimal.Decimal{}, false
	}
	dailySales := creditSales.DivRound(decimal.NewFromInt(int64(days)), intermediateScale)
	return accountsReceivable.DivRound(dailySales, ratioScale), true
}

// DaysPayableOutstanding returns payables / (costOfGoodsSold / days).
// Undefined when cost of goods sold is zero.
func DaysPayableOutstanding(accountsPayable, costOfGoodsSold decimal.Decimal, days int) (decimal.Decimal, bool) {
	if costOfGoodsSold.IsZero() {
		return decimal.Decimal{}, false
	}
	dailyCOGS := costOfGoodsSold.DivRound(decimal.NewFromInt(int64(days)), intermediateScale)
	return accountsPayable.DivRound(dailyCOGS, ratioScale), true
}

// DaysInventoryOutstanding returns inventory / (costOfGoodsSold / days).
// Undefined when cost of goods sold is zero.
func DaysInventoryOutstanding(inventory, costOfGoodsSold decimal.Decimal, days int) (decimal.Decimal, bool) {
	if costOfGoodsSold.IsZero() {
		return decimal.Decimal{}, false
	}
	dailyCOGS := costOfGoodsSold.DivRound(decimal.NewFromInt(int64(days)), intermediateScale)
	return inventory.DivRound(dailyCOGS, ratioScale), true
}

// CashConversionCycle returns DIO + DSO - DPO.
// Inputs that were undefined upstream arrive here as zero and silently bias
// the cycle toward zero; callers relying on CCC should check the component
// metrics for presence.
func CashConversionCycle(dso, dio, dpo decimal.Decimal) decimal.Decimal {
	return dio.Add(dso).Sub(dpo)
}

// WorkingCapitalTurnover returns revenue over average working capital.
// Undefined when average working capital is zero.
func WorkingCapitalTurnover(revenue, averageWorkingCapital decimal.Decimal) (decimal.Decimal, bool) {
	if averageWorkingCapital.IsZero() {
		return decimal.Decimal{}, false
	}
	return revenue.DivRound(averageWorkingCapital, ratioScale), true
}

// PercentageChange returns (new - old) * 100 / old.
// Undefined when the old value is zero.
func PercentageChange(oldValue, newValue decimal.Decimal) (decimal.Decimal, bool) {
	if oldValue.IsZero() {
		return decimal.Decimal{}, false
	}
	change := newValue.Sub(oldValue)
	return change.Mul(decimal.NewFromInt(100)).DivRound(oldValue, ratioScale), true
}

// FutureValue returns presentValue * (1 + rate)^periods, rounded to 2 places.
func FutureValue(presentValue, interestRate decimal.Decimal, periods int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(interestRate).Pow(decimal.NewFromInt(int64(periods)))
	return presentValue.Mul(factor).Round(ratioScale)
}

// BreakEvenPoint returns fixed costs over contribution margin per unit.
// Undefined when the contribution margin is zero.
func BreakEvenPoint(fixedCosts, contributionMargin decimal.Decimal) (decimal.Decimal, bool) {
	if contributionMargin.IsZero() {
		return decimal.Decimal{}, false
	}
	return fixedCosts.DivRound(contributionMargin, ratioScale), true
}

// DaysBetween returns the number of whole days from start to end.
func DaysBetween(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours() / 24)
}
