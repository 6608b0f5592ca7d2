package auth

import (
	"go.uber.org/fx"

	"github.com/convodash/convodash/internal/auth/repository"
	"github.com/convodash/convodash/internal/auth/service"
	"github.com/convodash/convodash/internal/auth/session"
	"github.com/convodash/convodash/internal/auth/token"
	"github.com/convodash/convodash/internal/config"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
	fx.Provide(session.NewManager),
	fx.Provide(provideSigner),
)

func provideSigner(cfg config.Config) (*token.Signer, error) {
	return token.NewSigner(cfg.AuthJWTSecret, cfg.AuthTokenTTL)
}
