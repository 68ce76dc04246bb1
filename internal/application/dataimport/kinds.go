package dataimport

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fintech/wcm/internal/domain/company"
	"github.com/fintech/wcm/internal/domain/ledger"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
	"github.com/fintech/wcm/internal/infrastructure/csvimport"
	"github.com/shopspring/decimal"
)

// dateLayout is the accepted CSV date format
const dateLayout = "2006-01-02"

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s, expected yyyy-MM-dd", value)
	}
	return d, nil
}

func parseAmount(column, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid number for %s: %s", column, value)
	}
	return d, nil
}

func parseCount(column, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %s", column, value)
	}
	return n, nil
}

// currencyConversion resolves the base-currency amount of a row.
// Precedence: an explicit base amount column, then amount x exchange_rate,
// then the amount taken verbatim as already being in the base currency.
func currencyConversion(row *csvimport.Row, baseColumn string, amount decimal.Decimal) (rate, base decimal.Decimal, err error) {
	rate = decimal.NewFromInt(1)
	if v := row.Get("exchange_rate"); v != "" {
		rate, err = parseAmount("exchange_rate", v)
		if err != nil {
			return decimal.Decimal{}, decimal.Decimal{}, err
		}
	}

	if v := row.Get(baseColumn); v != "" {
		base, err = parseAmount(baseColumn, v)
		if err != nil {
			return decimal.Decimal{}, decimal.Decimal{}, err
		}
		return rate, base, nil
	}
	if row.Get("exchange_rate") != "" {
		return rate, amount.Mul(rate), nil
	}
	return rate, amount, nil
}

var transactionKind = importKind{
	importType: "CASH_TRANSACTIONS",
	noun:       "cash transactions",
	required:   []string{"transaction_date", "amount", "description", "transaction_type", "currency_code"},
	build:      buildTransaction,
}

func buildTransaction(ctx context.Context, s *ImportService, comp *company.Company, row *csvimport.Row) error {
	date, err := parseDate(row.Get("transaction_date"))
	if err != nil {
		return err
	}
	amount, err := parseAmount("amount", row.Get("amount"))
	if err != nil {
		return err
	}
	txType, err := ledger.ParseTransactionType(strings.ToUpper(row.Get("transaction_type")))
	if err != nil {
		return err
	}

	tx, err := ledger.NewTransaction(comp.ID, date, txType, row.Get("description"), amount,
		valueobject.Currency(row.Get("currency_code")))
	if err != nil {
		return err
	}
	tx.ReferenceNumber = row.Get("reference_number")
	tx.Category = row.Get("category")
	tx.Notes = row.Get("notes")

	tx.ExchangeRate, tx.AmountBase, err = currencyConversion(row, "amount_base_currency", amount)
	if err != nil {
		return err
	}
	return s.repos.Transactions.Save(ctx, tx)
}

var invoiceKind = importKind{
	importType: "INVOICES",
	noun:       "invoices",
	required:   []string{"invoice_number", "invoice_type", "issue_date", "due_date", "total_amount", "currency_code"},
	build:      buildInvoice,
}

func buildInvoice(ctx context.Context, s *ImportService, comp *company.Company, row *csvimport.Row) error {
	invType, err := ledger.ParseInvoiceType(strings.ToUpper(row.Get("invoice_type")))
	if err != nil {
		return err
	}
	issueDate, err := parseDate(row.Get("issue_date"))
	if err != nil {
		return err
	}
	dueDate, err := parseDate(row.Get("due_date"))
	if err != nil {
		return err
	}
	total, err := parseAmount("total_amount", row.Get("total_amount"))
	if err != nil {
		return err
	}
	status := ledger.ParseInvoiceStatus(strings.ToUpper(row.Get("status")))

	inv, err := ledger.NewInvoice(comp.ID, row.Get("invoice_number"), invType, issueDate, dueDate, total,
		valueobject.Currency(row.Get("currency_code")))
	if err != nil {
		return err
	}
	inv.Status = status
	inv.ContactName = row.Get("contact_name")
	inv.ContactEmail = row.Get("contact_email")
	inv.PaymentTerms = row.Get("payment_terms")
	inv.Notes = row.Get("notes")

	if v := row.Get("subtotal"); v != "" {
		if inv.Subtotal, err = parseAmount("subtotal", v); err != nil {
			return err
		}
	}
	if v := row.Get("tax_amount"); v != "" {
		if inv.TaxAmount, err = parseAmount("tax_amount", v); err != nil {
			return err
		}
	}

	inv.ExchangeRate, inv.AmountBase, err = currencyConversion(row, "total_amount_base_currency", total)
	if err != nil {
		return err
	}
	return s.repos.Invoices.Save(ctx, inv)
}

var receivableKind = importKind{
	importType: "ACCOUNTS_RECEIVABLE",
	noun:       "accounts receivable",
	required:   []string{"customer_name", "amount", "currency_code", "invoice_date", "due_date", "status"},
	build:      buildReceivable,
}

func buildReceivable(ctx context.Context, s *ImportService, comp *company.Company, row *csvimport.Row) error {
	amount, err := parseAmount("amount", row.Get("amount"))
	if err != nil {
		return err
	}
	invoiceDate, err := parseDate(row.Get("invoice_date"))
	if err != nil {
		return err
	}
	dueDate, err := parseDate(row.Get("due_date"))
	if err != nil {
		return err
	}
	status, err := ledger.ParseReceivableStatus(strings.ToUpper(row.Get("status")))
	if err != nil {
		return err
	}

	recv, err := ledger.NewAccountsReceivable(comp.ID, row.Get("customer_name"), amount,
		valueobject.Currency(row.Get("currency_code")), dueDate, status)
	if err != nil {
		return err
	}
	recv.InvoiceDate = invoiceDate
	recv.InvoiceNumber = row.Get("invoice_number")
	recv.PaymentTerms = row.Get("payment_terms")
	recv.Notes = row.Get("notes")

	recv.ExchangeRate, recv.AmountBase, err = currencyConversion(row, "amount_base_currency", amount)
	if err != nil {
		return err
	}
	return s.repos.Receivables.Save(ctx, recv)
}

var payableKind = importKind{
	importType: "ACCOUNTS_PAYABLE",
	noun:       "accounts payable",
	required:   []string{"vendor_name", "amount", "currency_code", "invoice_date", "due_date", "status"},
	build:      buildPayable,
}

func buildPayable(ctx context.Context, s *ImportService, comp *company.Company, row *csvimport.Row) error {
	amount, err := parseAmount("amount", row.Get("amount"))
	if err != nil {
		return err
	}
	invoiceDate, err := parseDate(row.Get("invoice_date"))
	if err != nil {
		return err
	}
	dueDate, err := parseDate(row.Get("due_date"))
	if err != nil {
		return err
	}
	status, err := ledger.ParsePayableStatus(strings.ToUpper(row.Get("status")))
	if err != nil {
		return err
	}

	pay, err := ledger.NewAccountsPayable(comp.ID, row.Get("vendor_name"), amount,
		valueobject.Currency(row.Get("currency_code")), dueDate, status)
	if err != nil {
		return err
	}
	pay.InvoiceDate = invoiceDate
	pay.InvoiceNumber = row.Get("invoice_number")
	pay.Category = row.Get("category")
	pay.PaymentTerms = row.Get("payment_terms")
	pay.Notes = row.Get("notes")

	pay.ExchangeRate, pay.AmountBase, err = currencyConversion(row, "amount_base_currency", amount)
	if err != nil {
		return err
	}
	return s.repos.Payables.Save(ctx, pay)
}

var inventoryKind = importKind{
	importType: "INVENTORY",
	noun:       "inventory items",
	required:   []string{"item_name", "quantity", "unit_cost", "total_value", "currency_code", "item_type"},
	build:      buildInventoryItem,
}

func buildInventoryItem(ctx context.Context, s *ImportService, comp *company.Company, row *csvimport.Row) error {
	quantity, err := parseCount("quantity", row.Get("quantity"))
	if err != nil {
		return err
	}
	unitCost, err := parseAmount("unit_cost", row.Get("unit_cost"))
	if err != nil {
		return err
	}
	totalValue, err := parseAmount("total_value", row.Get("total_value"))
	if err != nil {
		return err
	}
	itemType, err := ledger.ParseItemType(strings.ToUpper(row.Get("item_type")))
	if err != nil {
		return err
	}
	status := ledger.ParseInventoryStatus(strings.ToUpper(row.Get("status")))

	item, err := ledger.NewInventoryItem(comp.ID, row.Get("item_name"), itemType, quantity, unitCost,
		valueobject.Currency(row.Get("currency_code")))
	if err != nil {
		return err
	}
	item.Status = status
	// The file's stated value wins over quantity x unit cost: imported stock
	// may carry adjustments the unit cost does not reflect.
	item.TotalValue = totalValue
	item.ItemCode = row.Get("item_code")
	item.Location = row.Get("location")
	item.Description = row.Get("description")

	if v := row.Get("acquisition_date"); v != "" {
		if item.AcquisitionDate, err = parseDate(v); err != nil {
			return err
		}
	}
	if v := row.Get("reorder_level"); v != "" {
		if item.ReorderLevel, err = parseCount("reorder_level", v); err != nil {
			return err
		}
	}
	return s.repos.Inventory.Save(ctx, item)
}
