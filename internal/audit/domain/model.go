// Package domain contains the append-only event log types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EventLog is one append-only audit record.
type EventLog struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	TenantID    *snowflake.ID     `gorm:"column:tenant_id;index"`
	EventType   string            `gorm:"column:event_type;type:text;not null"`
	Description string            `gorm:"type:text;not null;default:''"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	IPAddress   string            `gorm:"column:ip_address;type:text;not null;default:''"`
	UserAgent   string            `gorm:"column:user_agent;type:text;not null;default:''"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (EventLog) TableName() string { return "event_logs" }
