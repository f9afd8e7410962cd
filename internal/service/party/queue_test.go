package party

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/repository/party"
)

func TestAddToQueueBroadcastsToEveryone(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	// any member may add, not just the host
	resp, err := s.AddToQueue(ctx, &AddToQueueParams{
		SenderConnId: bClient.Id,
		Song:         domain.Song{Id: "s1", Title: "One"},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ConnectionId{aClient.Id, bClient.Id}, clientIds(resp.Clients))

	state := bootstrapState(t, s, "abc")
	require.Len(t, state.Queue, 1)
	assert.Equal(t, "s1", state.Queue[0].Id)
}

func TestAddToQueueRejectsDuplicateId(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")

	_, err := s.AddToQueue(ctx, &AddToQueueParams{
		SenderConnId: aClient.Id,
		Song:         domain.Song{Id: "s1", Title: "One"},
	})
	require.NoError(t, err)

	_, err = s.AddToQueue(ctx, &AddToQueueParams{
		SenderConnId: aClient.Id,
		Song:         domain.Song{Id: "s1", Title: "One (again)"},
	})
	assert.ErrorIs(t, err, party.ErrSongAlreadyQueued)

	state := bootstrapState(t, s, "abc")
	assert.Len(t, state.Queue, 1)
}

func TestRemoveFromQueueIsUnconditional(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	_, err := s.AddToQueue(ctx, &AddToQueueParams{
		SenderConnId: aClient.Id,
		Song:         domain.Song{Id: "s1"},
	})
	require.NoError(t, err)
	_, err = s.AddToQueue(ctx, &AddToQueueParams{
		SenderConnId: aClient.Id,
		Song:         domain.Song{Id: "s2"},
	})
	require.NoError(t, err)

	resp, err := s.RemoveFromQueue(ctx, &RemoveFromQueueParams{
		SenderConnId: bClient.Id,
		SongId:       "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ConnectionId{aClient.Id, bClient.Id}, clientIds(resp.Clients))

	// an id with no match still succeeds and still broadcasts
	resp, err = s.RemoveFromQueue(ctx, &RemoveFromQueueParams{
		SenderConnId: bClient.Id,
		SongId:       "missing",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Clients, 2)

	state := bootstrapState(t, s, "abc")
	require.Len(t, state.Queue, 1)
	assert.Equal(t, "s2", state.Queue[0].Id)
}

func TestReorderQueueReplacesVerbatim(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	for _, id := range []string{"s1", "s2", "s3"} {
		_, err := s.AddToQueue(ctx, &AddToQueueParams{
			SenderConnId: aClient.Id,
			Song:         domain.Song{Id: id},
		})
		require.NoError(t, err)
	}

	resp, err := s.ReorderQueue(ctx, &ReorderQueueParams{
		SenderConnId: aClient.Id,
		Queue: []domain.Song{
			{Id: "s3"},
			{Id: "s1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ConnectionId{bClient.Id}, clientIds(resp.Clients))

	state := bootstrapState(t, s, "abc")
	require.Len(t, state.Queue, 2)
	assert.Equal(t, "s3", state.Queue[0].Id)
	assert.Equal(t, "s1", state.Queue[1].Id)
}

func TestRelayChatIncludesSender(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	resp, err := s.RelayChat(ctx, &RelayParams{SenderConnId: bClient.Id})
	require.NoError(t, err)
	assert.Equal(t, []domain.ConnectionId{aClient.Id, bClient.Id}, clientIds(resp.Clients))
}

func TestRelayTypingExcludesSender(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	resp, err := s.RelayTyping(ctx, &RelayParams{SenderConnId: bClient.Id})
	require.NoError(t, err)
	assert.Equal(t, []domain.ConnectionId{aClient.Id}, clientIds(resp.Clients))
}

func TestRelayFallsBackToPayloadRoom(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")

	// untracked sender with a room hint reaches the room anyway
	resp, err := s.RelayChat(ctx, &RelayParams{
		SenderConnId: "ghost",
		RoomId:       "  ABC ",
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ConnectionId{aClient.Id}, clientIds(resp.Clients))

	_, err = s.RelayChat(ctx, &RelayParams{SenderConnId: "ghost"})
	assert.ErrorIs(t, err, party.ErrRoomNotFound)
}
