package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/partywave/server/internal/domain"
)

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	client := domain.NewClient(domain.ConnectionId(uuid.NewString()), conn)
	go client.WritePump()
	defer client.Close()
	defer c.disconnect(r.Context(), client.Id)

	ctx := context.WithValue(r.Context(), clientCtxKey, client)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(r.Context(), "connection closed", "conn_id", client.Id, "error", err)
	}
}

// disconnect runs when the transport drops without an explicit leave. Room
// removal follows the same rules as leaving; only the notification differs.
func (c controller) disconnect(ctx context.Context, connId domain.ConnectionId) {
	resp, err := c.partyService.Disconnect(ctx, connId)
	if err != nil {
		c.logger.InfoContext(ctx, "failed to disconnect", "error", err)
		return
	}

	if !resp.InParty || resp.RoomDestroyed {
		return
	}

	c.broadcast(ctx, resp.Clients, &Output{
		Type:    "party_notification",
		Payload: map[string]any{"msg": resp.Username + " disconnected"},
	})
	c.broadcastPartyUsers(ctx, resp.Clients, resp.Users, resp.HostId)
}

func (c controller) getStats(w http.ResponseWriter, r *http.Request) {
	stats := c.partyService.GetStats(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write stats", "error", err)
	}
}
