package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase records sourcing spend (a supplier batch buy).
type Purchase struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Supplier      string          `gorm:"type:varchar(255);not null;index" json:"supplier"`
	BatchName     string          `gorm:"type:varchar(255)" json:"batch_name,omitempty"`
	DatePurchased time.Time       `gorm:"not null;index" json:"date_purchased"`
	Cost          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cost"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
