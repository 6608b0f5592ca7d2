package audit

import (
	"go.uber.org/fx"

	"github.com/convodash/convodash/internal/audit/repository"
	"github.com/convodash/convodash/internal/audit/service"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
)
