package party

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/partywave/server/internal/domain"
	connInmemory "github.com/partywave/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/partywave/server/internal/repository/party/inmemory"
)

func newTestService(t *testing.T) *service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(roomInmemory.NewRepo(0, 0), connInmemory.NewRepo(), logger)
}

func joinMember(t *testing.T, s *service, roomId, userId, username string) (*domain.Client, JoinPartyResponse) {
	t.Helper()

	client := domain.NewClient(domain.ConnectionId(uuid.NewString()), nil)
	resp, err := s.JoinParty(context.Background(), &JoinPartyParams{
		Client:   client,
		RoomId:   roomId,
		UserId:   userId,
		Username: username,
	})
	require.NoError(t, err)

	return client, resp
}

// bootstrapState joins a throwaway member to observe the room's
// authoritative state through the join snapshot.
func bootstrapState(t *testing.T, s *service, roomId string) domain.PlaybackState {
	t.Helper()

	_, resp := joinMember(t, s, roomId, "observer-"+uuid.NewString(), "observer")
	return resp.State
}

func clientIds(clients []*domain.Client) []domain.ConnectionId {
	ids := make([]domain.ConnectionId, 0, len(clients))
	for _, client := range clients {
		ids = append(ids, client.Id)
	}
	return ids
}
