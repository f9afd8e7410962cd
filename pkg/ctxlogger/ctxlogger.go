package ctxlogger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// ContextHandler is a slog.Handler that adds attributes carried in the
// context (see AppendCtx) to every record.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

// AppendCtx returns a context carrying the parent's logging attributes plus
// attr. The parent's slice is copied, never mutated.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	var attrs []slog.Attr
	if existing, ok := parent.Value(ctxKey{}).([]slog.Attr); ok {
		attrs = make([]slog.Attr, len(existing), len(existing)+1)
		copy(attrs, existing)
	}
	attrs = append(attrs, attr)

	return context.WithValue(parent, ctxKey{}, attrs)
}
