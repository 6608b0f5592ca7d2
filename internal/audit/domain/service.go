package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service records audit events. Recording never fails the caller's
// request path; persistence errors are logged and swallowed.
type Service interface {
	Record(ctx context.Context, tenantID *snowflake.ID, eventType, description string, metadata map[string]any)
}

// Repository persists event log rows.
type Repository interface {
	Insert(ctx context.Context, event *EventLog) error
}
