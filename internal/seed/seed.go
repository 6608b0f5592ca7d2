// Package seed bootstraps default tenants and optional demo data so a
// fresh install is usable immediately.
package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	authdomain "github.com/convodash/convodash/internal/auth/domain"
	"github.com/convodash/convodash/internal/auth/password"
)

type defaultTenant struct {
	Email       string
	Password    string
	Name        string
	CompanyName string
	AgentID     string
}

var defaultTenants = []defaultTenant{
	{
		Email:       "admin@dashboard.com",
		Password:    "admin123",
		Name:        "Administrator",
		CompanyName: "Dashboard Admin",
		AgentID:     "admin-agent-001",
	},
	{
		Email:       "demo@empresa.com",
		Password:    "demo123",
		Name:        "Demo Client",
		CompanyName: "Empresa Demo Ltda",
		AgentID:     "demo-agent-001",
	},
}

// EnsureDefaultTenants creates the bootstrap accounts if they are missing.
// Existing rows are left untouched, so operators can rotate the passwords.
func EnsureDefaultTenants(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seed := range defaultTenants {
			if err := ensureTenantTx(ctx, tx, node, seed); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureTenantTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, seed defaultTenant) error {
	email := strings.ToLower(strings.TrimSpace(seed.Email))

	var existing authdomain.Tenant
	err := tx.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(seed.Password)
	if err != nil {
		return err
	}

	tenant := authdomain.Tenant{
		ID:           node.Generate(),
		Email:        email,
		PasswordHash: hashed,
		Name:         seed.Name,
		CompanyName:  seed.CompanyName,
		AgentID:      seed.AgentID,
		Settings: datatypes.JSONMap{
			"theme":         "light",
			"notifications": true,
		},
		IsActive: true,
	}
	return tx.WithContext(ctx).Create(&tenant).Error
}
