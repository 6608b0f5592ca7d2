// Package domain contains conversation tracking types: the conversations
// themselves plus the objections and contact reasons raised during them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Conversation statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// Contact reason resolution statuses.
const (
	ResolutionOpen      = "open"
	ResolutionResolved  = "resolved"
	ResolutionEscalated = "escalated"
)

// Conversation is one customer interaction.
type Conversation struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	TenantID      snowflake.ID `gorm:"column:tenant_id;not null;index:idx_conversations_tenant_started,priority:1"`
	Code          string       `gorm:"type:text;not null;default:''"`
	CustomerPhone string       `gorm:"column:customer_phone;type:text;not null;default:''"`
	CustomerName  string       `gorm:"column:customer_name;type:text;not null;default:''"`
	Status        string       `gorm:"type:text;not null;default:'active'"`
	Channel       string       `gorm:"type:text;not null;default:''"`
	StartedAt     time.Time    `gorm:"column:started_at;not null;index:idx_conversations_tenant_started,priority:2"`
	EndedAt       *time.Time   `gorm:"column:ended_at"`
	Duration      int64        `gorm:"not null;default:0"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Conversation) TableName() string { return "conversations" }

// Objection is a customer pushback raised during a conversation.
type Objection struct {
	ID              snowflake.ID  `gorm:"primaryKey"`
	TenantID        snowflake.ID  `gorm:"column:tenant_id;not null;index"`
	ConversationID  *snowflake.ID `gorm:"column:conversation_id"`
	ObjectionType   string        `gorm:"column:objection_type;type:text;not null"`
	Content         string        `gorm:"type:text;not null;default:''"`
	CustomerMessage string        `gorm:"column:customer_message;type:text;not null;default:''"`
	WasHandled      bool          `gorm:"column:was_handled;not null;default:false"`
	OccurredAt      time.Time     `gorm:"column:occurred_at;not null;index"`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Objection) TableName() string { return "objections" }

// ContactReason categorizes why a customer reached out.
type ContactReason struct {
	ID               snowflake.ID  `gorm:"primaryKey"`
	TenantID         snowflake.ID  `gorm:"column:tenant_id;not null;index"`
	ConversationID   *snowflake.ID `gorm:"column:conversation_id"`
	Category         string        `gorm:"type:text;not null"`
	Subcategory      string        `gorm:"type:text;not null;default:''"`
	Description      string        `gorm:"type:text;not null;default:''"`
	ResolutionStatus string        `gorm:"column:resolution_status;type:text;not null;default:'open'"`
	OccurredAt       time.Time     `gorm:"column:occurred_at;not null;index"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ContactReason) TableName() string { return "contact_reasons" }
