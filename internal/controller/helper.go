package controller

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/partywave/server/internal/domain"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c controller) generateTimeBasedId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// writeToClient enqueues one frame onto a client's send buffer. Delivery is
// best effort: a full buffer means the frame is dropped, never that the
// caller blocks.
func (c controller) writeToClient(ctx context.Context, client *domain.Client, output *Output) {
	if client == nil {
		return
	}

	data, err := json.Marshal(output)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to marshal output", "error", err)
		return
	}

	select {
	case client.Send <- data:
	default:
		c.logger.WarnContext(ctx, "send buffer full, dropping frame",
			"conn_id", client.Id,
			"type", output.Type,
		)
	}
}

func (c controller) broadcast(ctx context.Context, clients []*domain.Client, output *Output) {
	data, err := json.Marshal(output)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to marshal output", "error", err)
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			c.logger.WarnContext(ctx, "send buffer full, dropping frame",
				"conn_id", client.Id,
				"type", output.Type,
			)
		}
	}
}
