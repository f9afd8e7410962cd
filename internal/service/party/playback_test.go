package party

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/repository/party"
)

func TestSetSongRequiresHost(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	_, err := s.SetSong(ctx, &SetSongParams{
		SenderConnId: bClient.Id,
		Song:         domain.Song{Id: "s1", Title: "One"},
	})
	assert.ErrorIs(t, err, party.ErrPermissionDenied)

	state := bootstrapState(t, s, "abc")
	assert.Nil(t, state.Song)
}

func TestSetSongResetsPlaybackAndSkipsSender(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	resp, err := s.SetSong(ctx, &SetSongParams{
		SenderConnId: aClient.Id,
		Song:         domain.Song{Id: "s1", Title: "One", Artist: "Artist"},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ConnectionId{bClient.Id}, clientIds(resp.Clients))

	state := bootstrapState(t, s, "abc")
	require.NotNil(t, state.Song)
	assert.Equal(t, "s1", state.Song.Id)
	assert.True(t, state.IsPlaying)
	assert.Zero(t, state.Time)
}

func TestPlayStampsAuthoritativeTime(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	pos := 42.5
	resp, err := s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{
		SenderConnId: aClient.Id,
		IsPlaying:    true,
		Time:         &pos,
	})
	require.NoError(t, err)
	assert.Equal(t, 42.5, resp.Time)
	assert.Equal(t, []domain.ConnectionId{bClient.Id}, clientIds(resp.Clients))

	state := bootstrapState(t, s, "abc")
	assert.True(t, state.IsPlaying)
	assert.Equal(t, 42.5, state.Time)
}

func TestPlayWithoutTimeKeepsPosition(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")

	_, err := s.Seek(ctx, &SeekParams{SenderConnId: aClient.Id, Time: 10})
	require.NoError(t, err)

	resp, err := s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{
		SenderConnId: aClient.Id,
		IsPlaying:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, resp.Time)
}

func TestPauseRequiresHost(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	pos := 5.0
	_, err := s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{
		SenderConnId: aClient.Id,
		IsPlaying:    true,
		Time:         &pos,
	})
	require.NoError(t, err)

	_, err = s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{
		SenderConnId: bClient.Id,
		IsPlaying:    false,
	})
	assert.ErrorIs(t, err, party.ErrPermissionDenied)

	state := bootstrapState(t, s, "abc")
	assert.True(t, state.IsPlaying)
}

func TestSeekUpdatesPositionOnly(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	aClient, _ := joinMember(t, s, "abc", "u1", "alice")
	bClient, _ := joinMember(t, s, "abc", "u2", "bob")

	pos := 3.0
	_, err := s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{
		SenderConnId: aClient.Id,
		IsPlaying:    true,
		Time:         &pos,
	})
	require.NoError(t, err)

	resp, err := s.Seek(ctx, &SeekParams{SenderConnId: aClient.Id, Time: 128})
	require.NoError(t, err)
	assert.Equal(t, []domain.ConnectionId{bClient.Id}, clientIds(resp.Clients))

	state := bootstrapState(t, s, "abc")
	assert.Equal(t, 128.0, state.Time)
	assert.True(t, state.IsPlaying)
}

func TestPlaybackFromUntrackedConnFails(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Seek(ctx, &SeekParams{SenderConnId: "ghost", Time: 1})
	assert.ErrorIs(t, err, party.ErrMemberNotFound)
}
