package persistence

import (
	"context"
	"errors"

	"github.com/fintech/wcm/internal/domain/company"
	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements company.Repository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	var c company.Company
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll returns all companies
func (r *GormCompanyRepository) FindAll(ctx context.Context) ([]company.Company, error) {
	var companies []company.Company
	if err := r.db.WithContext(ctx).Order("name").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// FindActive returns all active companies
func (r *GormCompanyRepository) FindActive(ctx context.Context) ([]company.Company, error) {
	var companies []company.Company
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// Save persists a company (insert or update)
func (r *GormCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	return r.db.WithContext(ctx).Save(c).Error
}
