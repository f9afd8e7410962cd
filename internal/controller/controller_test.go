package controller

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partywave/server/internal/domain"
	connInmemory "github.com/partywave/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/partywave/server/internal/repository/party/inmemory"
	"github.com/partywave/server/internal/service/party"
)

func newTestController(t *testing.T) *controller {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := party.NewService(roomInmemory.NewRepo(0, 0), connInmemory.NewRepo(), logger)

	return NewController(svc, logger)
}

// joinClient registers a channel-backed client in a party and returns the
// context a websocket handler would see for it.
func joinClient(t *testing.T, c *controller, roomId, userId, username string) (*domain.Client, context.Context) {
	t.Helper()

	client := domain.NewClient(domain.ConnectionId(userId+"-conn"), nil)
	_, err := c.partyService.JoinParty(context.Background(), &party.JoinPartyParams{
		Client:   client,
		RoomId:   roomId,
		UserId:   userId,
		Username: username,
	})
	require.NoError(t, err)

	return client, context.WithValue(context.Background(), clientCtxKey, client)
}

func recvFrame(t *testing.T, client *domain.Client) (string, json.RawMessage) {
	t.Helper()

	select {
	case data := <-client.Send:
		var frame struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame.Type, frame.Payload
	default:
		t.Fatal("no frame queued")
		return "", nil
	}
}

func drainFrames(client *domain.Client) {
	for {
		select {
		case <-client.Send:
		default:
			return
		}
	}
}

func TestPlayBroadcastCarriesAuthoritativeTime(t *testing.T) {
	c := newTestController(t)

	hostClient, hostCtx := joinClient(t, c, "abc", "u1", "alice")
	bClient, _ := joinClient(t, c, "abc", "u2", "bob")

	require.NoError(t, c.handlePartyAction(hostCtx, nil, json.RawMessage(`{"type":"seek","time":10}`)))
	drainFrames(bClient)

	// play without a time field: the broadcast is stamped with the server's
	// position, not whatever the sender knew
	require.NoError(t, c.handlePartyAction(hostCtx, nil, json.RawMessage(`{"type":"play"}`)))

	frameType, payload := recvFrame(t, bClient)
	assert.Equal(t, "party_update", frameType)

	var action map[string]any
	require.NoError(t, json.Unmarshal(payload, &action))
	assert.Equal(t, "play", action["type"])
	assert.Equal(t, 10.0, action["time"])

	assert.Empty(t, hostClient.Send)
}

func TestPauseBroadcastKeepsExtraFields(t *testing.T) {
	c := newTestController(t)

	_, hostCtx := joinClient(t, c, "abc", "u1", "alice")
	bClient, _ := joinClient(t, c, "abc", "u2", "bob")

	require.NoError(t, c.handlePartyAction(hostCtx, nil,
		json.RawMessage(`{"type":"pause","time":42,"reason":"break"}`)))

	_, payload := recvFrame(t, bClient)
	var action map[string]any
	require.NoError(t, json.Unmarshal(payload, &action))
	assert.Equal(t, "pause", action["type"])
	assert.Equal(t, 42.0, action["time"])
	assert.Equal(t, "break", action["reason"])
}

func TestSetSongBroadcastEchoesPayload(t *testing.T) {
	c := newTestController(t)

	_, hostCtx := joinClient(t, c, "abc", "u1", "alice")
	bClient, _ := joinClient(t, c, "abc", "u2", "bob")

	payload := `{"type":"set-song","song":{"id":"s1","title":"One","artist":"A"},"origin":"search"}`
	require.NoError(t, c.handlePartyAction(hostCtx, nil, json.RawMessage(payload)))

	frameType, got := recvFrame(t, bClient)
	assert.Equal(t, "party_update", frameType)
	assert.JSONEq(t, payload, string(got))
}

func TestSeekBroadcastEchoesPayload(t *testing.T) {
	c := newTestController(t)

	_, hostCtx := joinClient(t, c, "abc", "u1", "alice")
	bClient, _ := joinClient(t, c, "abc", "u2", "bob")

	payload := `{"type":"seek","time":77.5}`
	require.NoError(t, c.handlePartyAction(hostCtx, nil, json.RawMessage(payload)))

	frameType, got := recvFrame(t, bClient)
	assert.Equal(t, "party_update", frameType)
	assert.JSONEq(t, payload, string(got))
}

func TestPlaybackActionFromNonHostSendsNothing(t *testing.T) {
	c := newTestController(t)

	hostClient, _ := joinClient(t, c, "abc", "u1", "alice")
	bClient, bCtx := joinClient(t, c, "abc", "u2", "bob")

	err := c.handlePartyAction(bCtx, nil, json.RawMessage(`{"type":"play","time":5}`))
	require.Error(t, err)

	assert.Empty(t, hostClient.Send)
	assert.Empty(t, bClient.Send)
}
