package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemStatus Enum Simulation
const (
	ItemStatusInStock  = "IN_STOCK"
	ItemStatusListed   = "LISTED"
	ItemStatusSold     = "SOLD"
	ItemStatusReserved = "RESERVED"
	ItemStatusArchived = "ARCHIVED"
	ItemStatusDraft    = "DRAFT"
)

// ItemStatuses lists every valid item status for request validation.
var ItemStatuses = []string{
	ItemStatusInStock,
	ItemStatusListed,
	ItemStatusSold,
	ItemStatusReserved,
	ItemStatusArchived,
	ItemStatusDraft,
}

// IsValidItemStatus reports whether s is a known item status.
func IsValidItemStatus(s string) bool {
	for _, status := range ItemStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Item represents a single saleable unit in the inventory.
// PurchasePrice is the cost basis used for profit calculations.
type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string          `gorm:"type:varchar(255);not null" json:"title"`
	SKU           string          `gorm:"type:varchar(100);index" json:"sku"`
	BrandID       *uuid.UUID      `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category      string          `gorm:"type:varchar(100)" json:"category"`
	Condition     string          `gorm:"type:varchar(50);default:'New'" json:"condition"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"purchase_price"`
	Quantity      int             `gorm:"type:int;not null;default:0;check:quantity >= 0" json:"quantity"`
	DateAdded     time.Time       `gorm:"not null;index" json:"date_added"`
	Status        string          `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}
