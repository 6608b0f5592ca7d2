package requestmeta

import "context"

// Meta carries per-request client metadata for audit trails and logging.
type Meta struct {
	RequestID string
	IPAddress string
	UserAgent string
}

type metaKey struct{}

// WithMeta stores request metadata in the context.
func WithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

// FromContext returns the request metadata from context, if set.
func FromContext(ctx context.Context) (Meta, bool) {
	if ctx == nil {
		return Meta{}, false
	}
	meta, ok := ctx.Value(metaKey{}).(Meta)
	return meta, ok
}
