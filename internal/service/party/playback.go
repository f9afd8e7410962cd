package party

import (
	"context"
	"fmt"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/repository/party"
)

type SetSongParams struct {
	SenderConnId domain.ConnectionId
	Song         domain.Song
}

type SetSongResponse struct {
	// Clients excludes the host: the sender already applied the change.
	Clients []*domain.Client
}

func (s service) SetSong(ctx context.Context, params *SetSongParams) (SetSongResponse, error) {
	roomId, err := s.roomRepo.GetRoomIdByConn(ctx, params.SenderConnId)
	if err != nil {
		return SetSongResponse{}, fmt.Errorf("failed to resolve room: %w", err)
	}

	connIds, err := s.roomRepo.SetSong(ctx, &party.SetSongParams{
		SenderConnId: params.SenderConnId,
		RoomId:       roomId,
		Song:         params.Song,
	})
	if err != nil {
		return SetSongResponse{}, fmt.Errorf("failed to set song: %w", err)
	}

	return SetSongResponse{
		Clients: s.getClients(ctx, connIds, params.SenderConnId),
	}, nil
}

type UpdatePlayerStateParams struct {
	SenderConnId domain.ConnectionId
	IsPlaying    bool
	// Time is optional; nil keeps the authoritative position.
	Time *float64
}

type UpdatePlayerStateResponse struct {
	// Time is the authoritative position to stamp onto the broadcast, so
	// late or slow clients converge on the server's view.
	Time    float64
	Clients []*domain.Client
}

func (s service) UpdatePlayerState(ctx context.Context, params *UpdatePlayerStateParams) (UpdatePlayerStateResponse, error) {
	roomId, err := s.roomRepo.GetRoomIdByConn(ctx, params.SenderConnId)
	if err != nil {
		return UpdatePlayerStateResponse{}, fmt.Errorf("failed to resolve room: %w", err)
	}

	result, err := s.roomRepo.UpdatePlayerState(ctx, &party.UpdatePlayerStateParams{
		SenderConnId: params.SenderConnId,
		RoomId:       roomId,
		IsPlaying:    params.IsPlaying,
		Time:         params.Time,
	})
	if err != nil {
		return UpdatePlayerStateResponse{}, fmt.Errorf("failed to update player state: %w", err)
	}

	return UpdatePlayerStateResponse{
		Time:    result.Time,
		Clients: s.getClients(ctx, result.ConnIds, params.SenderConnId),
	}, nil
}

type SeekParams struct {
	SenderConnId domain.ConnectionId
	Time         float64
}

type SeekResponse struct {
	Clients []*domain.Client
}

func (s service) Seek(ctx context.Context, params *SeekParams) (SeekResponse, error) {
	roomId, err := s.roomRepo.GetRoomIdByConn(ctx, params.SenderConnId)
	if err != nil {
		return SeekResponse{}, fmt.Errorf("failed to resolve room: %w", err)
	}

	connIds, err := s.roomRepo.Seek(ctx, &party.SeekParams{
		SenderConnId: params.SenderConnId,
		RoomId:       roomId,
		Time:         params.Time,
	})
	if err != nil {
		return SeekResponse{}, fmt.Errorf("failed to seek: %w", err)
	}

	return SeekResponse{
		Clients: s.getClients(ctx, connIds, params.SenderConnId),
	}, nil
}
