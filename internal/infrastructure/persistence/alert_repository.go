package persistence

import (
	"context"
	"errors"

	"github.com/fintech/wcm/internal/domain/alert"
	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAlertRepository implements alert.Repository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// Save persists an alert (insert or update)
func (r *GormAlertRepository) Save(ctx context.Context, a *alert.Alert) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// FindByID finds an alert by its ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	var a alert.Alert
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByCompanyID returns all alerts for a company, newest first
func (r *GormAlertRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]alert.Alert, error) {
	var alerts []alert.Alert
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindActiveByCompanyID returns undismissed alerts for a company, newest first
func (r *GormAlertRepository) FindActiveByCompanyID(ctx context.Context, companyID uuid.UUID) ([]alert.Alert, error) {
	var alerts []alert.Alert
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND dismissed = ?", companyID, false).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindUnreadByCompanyID returns unread alerts for a company, newest first
func (r *GormAlertRepository) FindUnreadByCompanyID(ctx context.Context, companyID uuid.UUID) ([]alert.Alert, error) {
	var alerts []alert.Alert
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND read = ?", companyID, false).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindByCompanyIDAndType returns alerts of the given type for a company
func (r *GormAlertRepository) FindByCompanyIDAndType(ctx context.Context, companyID uuid.UUID, alertType alert.Type) ([]alert.Alert, error) {
	var alerts []alert.Alert
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND type = ?", companyID, alertType).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindByCompanyIDAndSeverity returns alerts of the given severity for a company
func (r *GormAlertRepository) FindByCompanyIDAndSeverity(ctx context.Context, companyID uuid.UUID, severity alert.Severity) ([]alert.Alert, error) {
	var alerts []alert.Alert
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND severity = ?", companyID, severity).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// CountUnreadByCompanyID counts unread alerts for a company
func (r *GormAlertRepository) CountUnreadByCompanyID(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&alert.Alert{}).
		Where("company_id = ? AND read = ?", companyID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
