package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the read surface every persisted aggregate exposes.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries the identifier and timestamps embedded by every
// aggregate root.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *BaseEntity) GetID() uuid.UUID        { return e.ID }
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// CompanyEntity extends BaseEntity with company ownership.
// Every ledger record and alert belongs to exactly one company.
type CompanyEntity struct {
	BaseEntity
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewCompanyEntity creates a new company-scoped entity
func NewCompanyEntity(companyID uuid.UUID) CompanyEntity {
	return CompanyEntity{BaseEntity: NewBaseEntity(), CompanyID: companyID}
}
