package ledger

import (
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType classifies inventory by production stage
type ItemType string

const (
	ItemTypeRawMaterial    ItemType = "RAW_MATERIAL"
	ItemTypeWorkInProgress ItemType = "WORK_IN_PROGRESS"
	ItemTypeFinishedGoods  ItemType = "FINISHED_GOODS"
	ItemTypeSupplies       ItemType = "SUPPLIES"
	ItemTypeOther          ItemType = "OTHER"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeRawMaterial, ItemTypeWorkInProgress, ItemTypeFinishedGoods,
		ItemTypeSupplies, ItemTypeOther:
		return true
	}
	return false
}

// String returns the string representation of ItemType
func (t ItemType) String() string {
	return string(t)
}

// ParseItemType parses an inventory item type string.
// Returns ErrInvalidInput for unknown values; there is no default.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid item type: "+s)
	}
	return t, nil
}

// InventoryStatus represents the stock state of an inventory item
type InventoryStatus string

const (
	InventoryStatusInStock      InventoryStatus = "IN_STOCK"
	InventoryStatusLowStock     InventoryStatus = "LOW_STOCK"
	InventoryStatusOutOfStock   InventoryStatus = "OUT_OF_STOCK"
	InventoryStatusDiscontinued InventoryStatus = "DISCONTINUED"
	InventoryStatusOnOrder      InventoryStatus = "ON_ORDER"
)

// IsValid checks if the status is a valid InventoryStatus
func (s InventoryStatus) IsValid() bool {
	switch s {
	case InventoryStatusInStock, InventoryStatusLowStock, InventoryStatusOutOfStock,
		InventoryStatusDiscontinued, InventoryStatusOnOrder:
		return true
	}
	return false
}

// String returns the string representation of InventoryStatus
func (s InventoryStatus) String() string {
	return string(s)
}

// ParseInventoryStatus parses an inventory status string.
// Empty and unrecognized inputs both default to IN_STOCK; the status column is
// optional on imported inventory and a bad value must not fail the row.
func ParseInventoryStatus(s string) InventoryStatus {
	st := InventoryStatus(s)
	if !st.IsValid() {
		return InventoryStatusInStock
	}
	return st
}

// InventoryItem is a stocked good valued at cost. TotalValue is
// quantity x unit cost in the item's currency; only items priced in the
// company's reporting currency count toward the inventory aggregate.
type InventoryItem struct {
	shared.CompanyEntity
	ItemName        string               `json:"item_name"`
	ItemCode        string               `json:"item_code,omitempty"`
	Type            ItemType             `json:"type"`
	Status          InventoryStatus      `json:"status"`
	Quantity        int                  `json:"quantity"`
	UnitCost        decimal.Decimal      `json:"unit_cost"`
	TotalValue      decimal.Decimal      `json:"total_value"`
	CurrencyCode    valueobject.Currency `json:"currency_code"`
	AcquisitionDate time.Time            `json:"acquisition_date"`
	Location        string               `json:"location,omitempty"`
	Description     string               `json:"description,omitempty"`
	ReorderLevel    int                  `json:"reorder_level,omitempty"`
}

// NewInventoryItem creates a new inventory item for the given company
func NewInventoryItem(companyID uuid.UUID, name string, itemType ItemType, quantity int, unitCost decimal.Decimal, currency valueobject.Currency) (*InventoryItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item name cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid item type: "+string(itemType))
	}
	return &InventoryItem{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		ItemName:      name,
		Type:          itemType,
		Status:        InventoryStatusInStock,
		Quantity:      quantity,
		UnitCost:      unitCost,
		TotalValue:    unitCost.Mul(decimal.NewFromInt(int64(quantity))),
		CurrencyCode:  currency,
	}, nil
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}
