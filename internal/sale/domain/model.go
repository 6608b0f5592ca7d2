// Package domain contains the sales ledger types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Sale statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Sale is one closed (or attempted) transaction.
type Sale struct {
	ID             snowflake.ID  `gorm:"primaryKey"`
	TenantID       snowflake.ID  `gorm:"column:tenant_id;not null;index:idx_sales_tenant_date,priority:1"`
	ConversationID *snowflake.ID `gorm:"column:conversation_id"`
	ProductID      *snowflake.ID `gorm:"column:product_id;index"`
	Code           string        `gorm:"type:text;not null;default:''"`
	Quantity       int64         `gorm:"not null;default:1"`
	UnitPrice      float64       `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	TotalAmount    float64       `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Status         string        `gorm:"type:text;not null;default:'pending'"`
	PaymentMethod  string        `gorm:"column:payment_method;type:text;not null;default:''"`
	SaleDate       time.Time     `gorm:"column:sale_date;not null;index:idx_sales_tenant_date,priority:2"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Sale) TableName() string { return "sales" }
