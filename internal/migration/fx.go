package migration

import (
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	auditdomain "github.com/convodash/convodash/internal/audit/domain"
	authdomain "github.com/convodash/convodash/internal/auth/domain"
	"github.com/convodash/convodash/internal/config"
	convdomain "github.com/convodash/convodash/internal/conversation/domain"
	productdomain "github.com/convodash/convodash/internal/product/domain"
	saledomain "github.com/convodash/convodash/internal/sale/domain"
	"github.com/convodash/convodash/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The versioned migrations target postgres; other dialects are
			// for local development and tests, where AutoMigrate suffices.
			if err := conn.AutoMigrate(
				&authdomain.Tenant{},
				&authdomain.Session{},
				&productdomain.Product{},
				&convdomain.Conversation{},
				&convdomain.Objection{},
				&convdomain.ContactReason{},
				&saledomain.Sale{},
				&auditdomain.EventLog{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDefaultTenants {
			if err := seed.EnsureDefaultTenants(conn); err != nil {
				return err
			}
		}
		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn, time.Now().UTC())
		}
		return nil
	}),
)
