package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateItem     = "CREATE_ITEM"
	ActionUpdateItem     = "UPDATE_ITEM"
	ActionDeleteItem     = "DELETE_ITEM"
	ActionCreateSale     = "CREATE_SALE"
	ActionDeleteSale     = "DELETE_SALE"
	ActionCreatePurchase = "CREATE_PURCHASE"
	ActionDeletePurchase = "DELETE_PURCHASE"
	ActionCreateChart    = "CREATE_CHART"
	ActionUpdateChart    = "UPDATE_CHART"
	ActionDeleteChart    = "DELETE_CHART"
)

// AuditLog tracks Who, What, and When for record mutations
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated import
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
