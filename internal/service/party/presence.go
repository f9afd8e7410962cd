package party

import (
	"context"
	"errors"
	"fmt"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/repository/party"
)

type JoinPartyParams struct {
	Client    *domain.Client
	RoomId    string
	UserId    string
	Username  string
	AvatarURL string
}

type JoinPartyResponse struct {
	// State is the bootstrap snapshot delivered to the joiner alone, even
	// when the room was just created.
	State       domain.PlaybackState
	Users       []User
	HostId      string
	RoomCreated bool
	// Clients is the whole room, joiner included.
	Clients []*domain.Client
}

func (s service) JoinParty(ctx context.Context, params *JoinPartyParams) (JoinPartyResponse, error) {
	// Registration tracks the live socket, not party membership: it survives
	// leave and kick, so the same connection may join again later. Disconnect
	// is what unregisters.
	if err := s.connRepo.Add(params.Client); err != nil {
		return JoinPartyResponse{}, fmt.Errorf("failed to register client: %w", err)
	}

	result, err := s.roomRepo.AddMember(ctx, &party.AddMemberParams{
		ConnId:    params.Client.Id,
		RoomId:    params.RoomId,
		UserId:    params.UserId,
		Username:  params.Username,
		AvatarURL: params.AvatarURL,
	})
	if err != nil {
		return JoinPartyResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	return JoinPartyResponse{
		State:       result.State,
		Users:       usersFromSnapshot(result.RoomSnapshot),
		HostId:      result.HostUserId,
		RoomCreated: result.Created,
		Clients:     s.getClients(ctx, result.ConnIds, ""),
	}, nil
}

type LeavePartyParams struct {
	ConnId domain.ConnectionId
	// Username is the display name supplied by the client for the leave
	// notification; the stored name is used when it is empty.
	Username string
}

type LeavePartyResponse struct {
	Username      string
	Users         []User
	HostId        string
	RoomDestroyed bool
	// Clients is the remaining room membership; empty when the room died.
	Clients []*domain.Client
}

func (s service) LeaveParty(ctx context.Context, params *LeavePartyParams) (LeavePartyResponse, error) {
	result, err := s.roomRepo.RemoveMember(ctx, params.ConnId)
	if err != nil {
		return LeavePartyResponse{}, fmt.Errorf("failed to remove member: %w", err)
	}

	username := params.Username
	if username == "" {
		username = result.Removed.Username
	}

	return LeavePartyResponse{
		Username:      username,
		Users:         usersFromSnapshot(result.RoomSnapshot),
		HostId:        result.HostUserId,
		RoomDestroyed: result.RoomDestroyed,
		Clients:       s.getClients(ctx, result.ConnIds, ""),
	}, nil
}

type KickMemberParams struct {
	SenderConnId domain.ConnectionId
	RoomId       string
	TargetUserId string
}

type KickMemberResponse struct {
	TargetClient *domain.Client
	Target       domain.Member
	Users        []User
	HostId       string
	// Clients is the room membership after the kick.
	Clients []*domain.Client
}

// KickMember removes the target, resolved by external user id, from the
// party. Only the host may kick; everyone else gets a permission error the
// caller is expected to swallow.
func (s service) KickMember(ctx context.Context, params *KickMemberParams) (KickMemberResponse, error) {
	result, err := s.roomRepo.KickMember(ctx, &party.KickMemberParams{
		SenderConnId: params.SenderConnId,
		RoomId:       params.RoomId,
		TargetUserId: params.TargetUserId,
	})
	if err != nil {
		return KickMemberResponse{}, fmt.Errorf("failed to kick member: %w", err)
	}

	targetClient, err := s.connRepo.GetClient(result.TargetConnId)
	if err != nil {
		s.logger.DebugContext(ctx, "kicked member has no client", "error", err)
	}

	return KickMemberResponse{
		TargetClient: targetClient,
		Target:       result.Target,
		Users:        usersFromSnapshot(result.RoomSnapshot),
		HostId:       result.HostUserId,
		Clients:      s.getClients(ctx, result.ConnIds, ""),
	}, nil
}

type DisconnectResponse struct {
	Username      string
	Users         []User
	HostId        string
	InParty       bool
	RoomDestroyed bool
	Clients       []*domain.Client
}

// Disconnect handles transport loss: the client is unregistered and, when it
// was tracked in a party, removed with the same host-reassignment and
// room-destruction rules as an explicit leave.
func (s service) Disconnect(ctx context.Context, connId domain.ConnectionId) (DisconnectResponse, error) {
	if _, err := s.connRepo.Remove(connId); err != nil {
		s.logger.DebugContext(ctx, "disconnect of unregistered client", "conn_id", connId)
	}

	result, err := s.roomRepo.RemoveMember(ctx, connId)
	if errors.Is(err, party.ErrMemberNotFound) {
		// Clients that never joined a party disconnect through here too.
		return DisconnectResponse{}, nil
	}
	if err != nil {
		return DisconnectResponse{}, fmt.Errorf("failed to remove member: %w", err)
	}

	return DisconnectResponse{
		Username:      result.Removed.Username,
		Users:         usersFromSnapshot(result.RoomSnapshot),
		HostId:        result.HostUserId,
		InParty:       true,
		RoomDestroyed: result.RoomDestroyed,
		Clients:       s.getClients(ctx, result.ConnIds, ""),
	}, nil
}
