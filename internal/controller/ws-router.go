package controller

import (
	"context"

	"github.com/partywave/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIdWSMw())
	mux.Use(c.loggerWSMw())

	// presence
	mux.Handle("join_party", c.handleJoinParty)
	mux.Handle("leave_party", c.handleLeaveParty)
	mux.Handle("kick_user", c.handleKickUser)

	// playback + queue
	mux.Handle("party_action", c.handlePartyAction)

	// ephemeral relay
	mux.Handle("party_chat", c.handlePartyChat)
	mux.Handle("typing", c.handleTyping)

	mux.NotFound(func(ctx context.Context, messageType string) {
		c.logger.DebugContext(ctx, "unknown message type", "message_type", messageType)
	})

	return mux
}
