package party

import (
	"context"
	"fmt"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/repository/party"
)

type AddToQueueParams struct {
	SenderConnId domain.ConnectionId
	Song         domain.Song
}

type AddToQueueResponse struct {
	// Clients includes the sender; queue adds echo back to their origin.
	Clients []*domain.Client
}

// AddToQueue appends a song unless its id is already queued, in which case
// the whole operation, broadcast included, is a no-op.
func (s service) AddToQueue(ctx context.Context, params *AddToQueueParams) (AddToQueueResponse, error) {
	roomId, err := s.roomRepo.GetRoomIdByConn(ctx, params.SenderConnId)
	if err != nil {
		return AddToQueueResponse{}, fmt.Errorf("failed to resolve room: %w", err)
	}

	connIds, err := s.roomRepo.AddToQueue(ctx, &party.AddToQueueParams{
		RoomId: roomId,
		Song:   params.Song,
	})
	if err != nil {
		return AddToQueueResponse{}, fmt.Errorf("failed to add to queue: %w", err)
	}

	return AddToQueueResponse{
		Clients: s.getClients(ctx, connIds, ""),
	}, nil
}

type RemoveFromQueueParams struct {
	SenderConnId domain.ConnectionId
	SongId       string
}

type RemoveFromQueueResponse struct {
	// Clients includes the sender. The broadcast happens even when nothing
	// matched the id.
	Clients []*domain.Client
}

func (s service) RemoveFromQueue(ctx context.Context, params *RemoveFromQueueParams) (RemoveFromQueueResponse, error) {
	roomId, err := s.roomRepo.GetRoomIdByConn(ctx, params.SenderConnId)
	if err != nil {
		return RemoveFromQueueResponse{}, fmt.Errorf("failed to resolve room: %w", err)
	}

	connIds, err := s.roomRepo.RemoveFromQueue(ctx, &party.RemoveFromQueueParams{
		RoomId: roomId,
		SongId: params.SongId,
	})
	if err != nil {
		return RemoveFromQueueResponse{}, fmt.Errorf("failed to remove from queue: %w", err)
	}

	return RemoveFromQueueResponse{
		Clients: s.getClients(ctx, connIds, ""),
	}, nil
}

type ReorderQueueParams struct {
	SenderConnId domain.ConnectionId
	Queue        []domain.Song
}

type ReorderQueueResponse struct {
	// Clients excludes the sender, who already has the result locally.
	Clients []*domain.Client
}

func (s service) ReorderQueue(ctx context.Context, params *ReorderQueueParams) (ReorderQueueResponse, error) {
	roomId, err := s.roomRepo.GetRoomIdByConn(ctx, params.SenderConnId)
	if err != nil {
		return ReorderQueueResponse{}, fmt.Errorf("failed to resolve room: %w", err)
	}

	connIds, err := s.roomRepo.ReplaceQueue(ctx, &party.ReplaceQueueParams{
		RoomId: roomId,
		Queue:  params.Queue,
	})
	if err != nil {
		return ReorderQueueResponse{}, fmt.Errorf("failed to replace queue: %w", err)
	}

	return ReorderQueueResponse{
		Clients: s.getClients(ctx, connIds, params.SenderConnId),
	}, nil
}
