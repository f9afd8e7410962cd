package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/service/party"
	"github.com/partywave/server/pkg/validator"
	"github.com/partywave/server/pkg/wsrouter"
)

type iPartyService interface {
	JoinParty(context.Context, *party.JoinPartyParams) (party.JoinPartyResponse, error)
	LeaveParty(context.Context, *party.LeavePartyParams) (party.LeavePartyResponse, error)
	KickMember(context.Context, *party.KickMemberParams) (party.KickMemberResponse, error)
	Disconnect(context.Context, domain.ConnectionId) (party.DisconnectResponse, error)
	SetSong(context.Context, *party.SetSongParams) (party.SetSongResponse, error)
	UpdatePlayerState(context.Context, *party.UpdatePlayerStateParams) (party.UpdatePlayerStateResponse, error)
	Seek(context.Context, *party.SeekParams) (party.SeekResponse, error)
	AddToQueue(context.Context, *party.AddToQueueParams) (party.AddToQueueResponse, error)
	RemoveFromQueue(context.Context, *party.RemoveFromQueueParams) (party.RemoveFromQueueResponse, error)
	ReorderQueue(context.Context, *party.ReorderQueueParams) (party.ReorderQueueResponse, error)
	RelayChat(context.Context, *party.RelayParams) (party.RelayResponse, error)
	RelayTyping(context.Context, *party.RelayParams) (party.RelayResponse, error)
	GetStats(context.Context) party.Stats
}

type controller struct {
	partyService iPartyService
	upgrader     websocket.Upgrader
	validate     *validator.Validator
	logger       *slog.Logger
	wsmux        *wsrouter.WSRouter
}

func NewController(partyService iPartyService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		partyService: partyService,
		validate:     validator.NewValidator(),
		logger:       logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
