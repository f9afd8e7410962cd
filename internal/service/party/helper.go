package party

import (
	"context"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/repository/party"
)

// getClients maps connection ids to live clients, optionally excluding one
// connection. A member whose client has already gone away is skipped rather
// than failing the whole fan-out.
func (s service) getClients(ctx context.Context, connIds []domain.ConnectionId, exclude domain.ConnectionId) []*domain.Client {
	clients := make([]*domain.Client, 0, len(connIds))
	for _, connId := range connIds {
		if connId == exclude {
			continue
		}

		client, err := s.connRepo.GetClient(connId)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping member without client", "conn_id", connId, "error", err)
			continue
		}

		clients = append(clients, client)
	}

	return clients
}

func usersFromSnapshot(snapshot party.RoomSnapshot) []User {
	users := make([]User, 0, len(snapshot.Members))
	for _, m := range snapshot.Members {
		users = append(users, User{
			Id:     m.UserId,
			Name:   m.Username,
			Avatar: m.AvatarURL,
			IsHost: m.IsHost,
		})
	}

	return users
}

// resolveRoomId resolves the room an event targets: the connection registry
// first, then the room id supplied in the payload, if any. Used by the
// ephemeral relay, which must tolerate late or racy messages.
func (s service) resolveRoomId(ctx context.Context, connId domain.ConnectionId, payloadRoomId string) (string, error) {
	roomId, err := s.roomRepo.GetRoomIdByConn(ctx, connId)
	if err == nil {
		return roomId, nil
	}

	roomId = party.NormalizeRoomId(payloadRoomId)
	if roomId == "" {
		return "", party.ErrRoomNotFound
	}

	return roomId, nil
}
