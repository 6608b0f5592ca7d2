package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/convodash/convodash/internal/audit/domain"
	"github.com/convodash/convodash/internal/clock"
	"github.com/convodash/convodash/internal/requestmeta"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Repo  domain.Repository
	Clock clock.Clock
	GenID *snowflake.Node
}

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
	genID *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("audit.service"),
		repo:  p.Repo,
		clock: p.Clock,
		genID: p.GenID,
	}
}

// Record appends one event log row. Failures are logged, never returned,
// so a broken audit sink cannot take down the request path.
func (s *Service) Record(ctx context.Context, tenantID *snowflake.ID, eventType, description string, metadata map[string]any) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return
	}

	meta := datatypes.JSONMap{}
	for k, v := range metadata {
		meta[k] = v
	}

	event := &domain.EventLog{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		EventType:   eventType,
		Description: strings.TrimSpace(description),
		Metadata:    meta,
		CreatedAt:   s.clock.Now(),
	}
	if rm, ok := requestmeta.FromContext(ctx); ok {
		event.IPAddress = rm.IPAddress
		event.UserAgent = rm.UserAgent
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		s.log.Warn("audit record failed",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
