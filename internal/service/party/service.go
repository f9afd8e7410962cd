package party

import (
	"context"
	"log/slog"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/repository/party"
)

type iRoomRepo interface {
	// presence
	AddMember(context.Context, *party.AddMemberParams) (party.AddMemberResult, error)
	RemoveMember(context.Context, domain.ConnectionId) (party.RemoveMemberResult, error)
	KickMember(context.Context, *party.KickMemberParams) (party.KickMemberResult, error)
	GetRoomIdByConn(context.Context, domain.ConnectionId) (string, error)
	// playback
	SetSong(context.Context, *party.SetSongParams) ([]domain.ConnectionId, error)
	UpdatePlayerState(context.Context, *party.UpdatePlayerStateParams) (party.UpdatePlayerStateResult, error)
	Seek(context.Context, *party.SeekParams) ([]domain.ConnectionId, error)
	// queue
	AddToQueue(context.Context, *party.AddToQueueParams) ([]domain.ConnectionId, error)
	RemoveFromQueue(context.Context, *party.RemoveFromQueueParams) ([]domain.ConnectionId, error)
	ReplaceQueue(context.Context, *party.ReplaceQueueParams) ([]domain.ConnectionId, error)
	// lookup
	GetRoomConnIds(context.Context, string) ([]domain.ConnectionId, error)
	GetRoomState(context.Context, string) (domain.PlaybackState, error)
	RoomIds(context.Context) []string
}

type iConnRepo interface {
	Add(*domain.Client) error
	Remove(domain.ConnectionId) (*domain.Client, error)
	GetClient(domain.ConnectionId) (*domain.Client, error)
	Len() int
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	logger   *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		logger:   logger,
	}
}
