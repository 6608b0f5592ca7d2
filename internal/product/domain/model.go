// Package domain contains the product catalog types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is one sellable item in a tenant's catalog.
type Product struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	TenantID    snowflake.ID `gorm:"column:tenant_id;not null;index"`
	Code        string       `gorm:"type:text;not null"`
	Name        string       `gorm:"type:text;not null"`
	Description string       `gorm:"type:text;not null;default:''"`
	Price       float64      `gorm:"type:numeric(12,2);not null;default:0"`
	Category    string       `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
