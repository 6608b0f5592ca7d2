// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Tenant represents an account that owns a slice of the analytics data.
type Tenant struct {
	ID           snowflake.ID      `gorm:"primaryKey"`
	Email        string            `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string            `gorm:"column:password_hash;type:text;not null"`
	Name         string            `gorm:"type:text;not null;default:''"`
	CompanyName  string            `gorm:"column:company_name;type:text;not null;default:''"`
	AgentID      string            `gorm:"column:agent_id;type:text;not null;default:''"`
	Settings     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time        `gorm:"column:last_login_at"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// Session represents a persisted login session.
type Session struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	TenantID   snowflake.ID `gorm:"column:tenant_id;not null;index"`
	TokenHash  string       `gorm:"column:token_hash;type:text;not null;uniqueIndex"`
	IPAddress  string       `gorm:"column:ip_address;type:text;not null;default:''"`
	UserAgent  string       `gorm:"column:user_agent;type:text;not null;default:''"`
	ExpiresAt  time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt  *time.Time   `gorm:"column:revoked_at"`
	CreatedAt  time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	LastSeenAt *time.Time   `gorm:"column:last_seen_at"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// TenantSummary is the client-facing view of a tenant, without secrets.
type TenantSummary struct {
	ID          snowflake.ID      `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	CompanyName string            `json:"company_name"`
	AgentID     string            `json:"agent_id"`
	Settings    datatypes.JSONMap `json:"settings"`
}

// Summary strips the tenant down to its client-facing fields.
func (t *Tenant) Summary() TenantSummary {
	return TenantSummary{
		ID:          t.ID,
		Email:       t.Email,
		Name:        t.Name,
		CompanyName: t.CompanyName,
		AgentID:     t.AgentID,
		Settings:    t.Settings,
	}
}
