package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/partywave/server/pkg/ctxlogger"
	"github.com/partywave/server/pkg/wsrouter"
)

func (c controller) wsRequestIdWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("ws_request_id", c.generateTimeBasedId()))
			return next(ctx, conn, payload)
		}
	}
}

// loggerWSMw logs every inbound frame and its outcome. The wire protocol is
// ack-free, so a handler error here is the only trace a dropped event leaves.
func (c controller) loggerWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
			c.logger.DebugContext(ctx, "websocket message received", "payload", payload)

			start := time.Now()

			err := next(ctx, conn, payload)
			if err != nil {
				c.logger.InfoContext(ctx, "websocket message dropped", "error", err)
				return err
			}

			c.logger.DebugContext(ctx, "websocket message handled",
				"processing_time_us", time.Since(start).Microseconds(),
			)

			return nil
		}
	}
}
