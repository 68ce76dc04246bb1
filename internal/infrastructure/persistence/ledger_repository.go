package persistence

import (
	"context"

	"github.com/fintech/wcm/internal/domain/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerRepositories bundles the per-record ledger repositories; the
// import pipeline is the only writer, so they share one implementation file.

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Save persists a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, t *ledger.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// FindByCompanyID returns all transactions for a company, newest first
func (r *GormTransactionRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]ledger.Transaction, error) {
	var records []ledger.Transaction
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("transaction_date DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GormInvoiceRepository implements ledger.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save persists an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, i *ledger.Invoice) error {
	return r.db.WithContext(ctx).Save(i).Error
}

// FindByCompanyID returns all invoices for a company, newest first
func (r *GormInvoiceRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]ledger.Invoice, error) {
	var records []ledger.Invoice
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("issue_date DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GormReceivableRepository implements ledger.ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// Save persists a receivable
func (r *GormReceivableRepository) Save(ctx context.Context, ar *ledger.AccountsReceivable) error {
	return r.db.WithContext(ctx).Save(ar).Error
}

// FindByCompanyID returns all receivables for a company ordered by due date
func (r *GormReceivableRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]ledger.AccountsReceivable, error) {
	var records []ledger.AccountsReceivable
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("due_date").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GormPayableRepository implements ledger.PayableRepository using GORM
type GormPayableRepository struct {
	db *gorm.DB
}

// NewGormPayableRepository creates a new GormPayableRepository
func NewGormPayableRepository(db *gorm.DB) *GormPayableRepository {
	return &GormPayableRepository{db: db}
}

// Save persists a payable
func (r *GormPayableRepository) Save(ctx context.Context, ap *ledger.AccountsPayable) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// FindByCompanyID returns all payables for a company ordered by due date
func (r *GormPayableRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]ledger.AccountsPayable, error) {
	var records []ledger.AccountsPayable
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("due_date").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GormInventoryRepository implements ledger.InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Save persists an inventory item
func (r *GormInventoryRepository) Save(ctx context.Context, item *ledger.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// FindByCompanyID returns all inventory items for a company ordered by name
func (r *GormInventoryRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]ledger.InventoryItem, error) {
	var records []ledger.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("item_name").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GormCashAccountRepository implements ledger.CashAccountRepository using GORM
type GormCashAccountRepository struct {
	db *gorm.DB
}

// NewGormCashAccountRepository creates a new GormCashAccountRepository
func NewGormCashAccountRepository(db *gorm.DB) *GormCashAccountRepository {
	return &GormCashAccountRepository{db: db}
}

// Save persists a cash account
func (r *GormCashAccountRepository) Save(ctx context.Context, a *ledger.CashAccount) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// FindByCompanyID returns all cash accounts for a company ordered by name
func (r *GormCashAccountRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]ledger.CashAccount, error) {
	var records []ledger.CashAccount
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("account_name").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GormLiabilityRepository implements ledger.LiabilityRepository using GORM
type GormLiabilityRepository struct {
	db *gorm.DB
}

// NewGormLiabilityRepository creates a new GormLiabilityRepository
func NewGormLiabilityRepository(db *gorm.DB) *GormLiabilityRepository {
	return &GormLiabilityRepository{db: db}
}

// Save persists a short-term liability
func (r *GormLiabilityRepository) Save(ctx context.Context, l *ledger.ShortTermLiability) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// FindByCompanyID returns all liabilities for a company ordered by due date
func (r *GormLiabilityRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]ledger.ShortTermLiability, error) {
	var records []ledger.ShortTermLiability
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("due_date").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
