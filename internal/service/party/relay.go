package party

import (
	"context"
	"fmt"

	"github.com/partywave/server/internal/domain"
)

type RelayParams struct {
	SenderConnId domain.ConnectionId
	// RoomId is the fallback room supplied in the payload, used when the
	// connection is not tracked (late or racy messages).
	RoomId string
}

type RelayResponse struct {
	Clients []*domain.Client
}

// RelayChat resolves the sender's room and returns the full membership,
// sender included. Chat carries no authoritative state and is not stored.
func (s service) RelayChat(ctx context.Context, params *RelayParams) (RelayResponse, error) {
	roomId, err := s.resolveRoomId(ctx, params.SenderConnId, params.RoomId)
	if err != nil {
		return RelayResponse{}, fmt.Errorf("failed to resolve room: %w", err)
	}

	connIds, err := s.roomRepo.GetRoomConnIds(ctx, roomId)
	if err != nil {
		return RelayResponse{}, fmt.Errorf("failed to get room conns: %w", err)
	}

	return RelayResponse{
		Clients: s.getClients(ctx, connIds, ""),
	}, nil
}

// RelayTyping is RelayChat minus the sender, who knows they are typing.
func (s service) RelayTyping(ctx context.Context, params *RelayParams) (RelayResponse, error) {
	roomId, err := s.resolveRoomId(ctx, params.SenderConnId, params.RoomId)
	if err != nil {
		return RelayResponse{}, fmt.Errorf("failed to resolve room: %w", err)
	}

	connIds, err := s.roomRepo.GetRoomConnIds(ctx, roomId)
	if err != nil {
		return RelayResponse{}, fmt.Errorf("failed to get room conns: %w", err)
	}

	return RelayResponse{
		Clients: s.getClients(ctx, connIds, params.SenderConnId),
	}, nil
}
