package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records a single item sold on a platform.
// ItemID should resolve to an existing Item, but no FK constraint is
// enforced: the referenced item may have been deleted, and analytics
// must tolerate the dangling reference.
type Sale struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	SoldPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"sold_price"`
	Platform  string          `gorm:"type:varchar(100);not null;index" json:"platform"`
	Fees      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"fees"`
	DateSold  time.Time       `gorm:"not null;index" json:"date_sold"`
	Buyer     string          `gorm:"type:varchar(255)" json:"buyer,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
