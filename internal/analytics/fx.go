package analytics

import (
	"go.uber.org/fx"

	"github.com/convodash/convodash/internal/analytics/service"
)

var Module = fx.Module("analytics.service",
	fx.Provide(service.NewService),
)
