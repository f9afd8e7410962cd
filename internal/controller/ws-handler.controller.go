package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/service/party"
)

func (c controller) broadcastPartyUsers(ctx context.Context, clients []*domain.Client, users []party.User, hostId string) {
	c.broadcast(ctx, clients, &Output{
		Type: "party_users",
		Payload: map[string]any{
			"users":  users,
			"hostId": hostId,
		},
	})
}

type JoinPartyInput struct {
	Room     string `json:"room" validate:"required"`
	Username string `json:"username" validate:"required,max=32"`
	UserId   string `json:"userId" validate:"required"`
	Avatar   string `json:"avatar"`
}

func (c controller) handleJoinParty(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input JoinPartyInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("invalid payload: %v", validationErrors)
	}

	client := c.getClientFromCtx(ctx)
	if client == nil {
		return fmt.Errorf("no client in context")
	}

	joinPartyResp, err := c.partyService.JoinParty(ctx, &party.JoinPartyParams{
		Client:    client,
		RoomId:    input.Room,
		UserId:    input.UserId,
		Username:  input.Username,
		AvatarURL: input.Avatar,
	})
	if err != nil {
		return fmt.Errorf("failed to join party: %w", err)
	}

	// Bootstrap snapshot for the joiner alone, sent even when the room was
	// just created.
	c.writeToClient(ctx, client, &Output{
		Type:    "party_state_update",
		Payload: joinPartyResp.State,
	})

	c.broadcast(ctx, joinPartyResp.Clients, &Output{
		Type:    "party_notification",
		Payload: map[string]any{"msg": input.Username + " joined the party"},
	})
	c.broadcastPartyUsers(ctx, joinPartyResp.Clients, joinPartyResp.Users, joinPartyResp.HostId)

	return nil
}

type LeavePartyInput struct {
	Room     string `json:"room"`
	Username string `json:"username"`
}

func (c controller) handleLeaveParty(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input LeavePartyInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	client := c.getClientFromCtx(ctx)
	if client == nil {
		return fmt.Errorf("no client in context")
	}

	leavePartyResp, err := c.partyService.LeaveParty(ctx, &party.LeavePartyParams{
		ConnId:   client.Id,
		Username: input.Username,
	})
	if err != nil {
		return fmt.Errorf("failed to leave party: %w", err)
	}

	if leavePartyResp.RoomDestroyed {
		return nil
	}

	c.broadcast(ctx, leavePartyResp.Clients, &Output{
		Type:    "party_notification",
		Payload: map[string]any{"msg": leavePartyResp.Username + " left the party"},
	})
	c.broadcastPartyUsers(ctx, leavePartyResp.Clients, leavePartyResp.Users, leavePartyResp.HostId)

	return nil
}

type KickUserInput struct {
	Room     string `json:"room"`
	TargetId string `json:"targetId" validate:"required"`
}

func (c controller) handleKickUser(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input KickUserInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("invalid payload: %v", validationErrors)
	}

	client := c.getClientFromCtx(ctx)
	if client == nil {
		return fmt.Errorf("no client in context")
	}

	kickResp, err := c.partyService.KickMember(ctx, &party.KickMemberParams{
		SenderConnId: client.Id,
		RoomId:       input.Room,
		TargetUserId: input.TargetId,
	})
	if err != nil {
		return fmt.Errorf("failed to kick member: %w", err)
	}

	c.writeToClient(ctx, kickResp.TargetClient, &Output{
		Type:    "kicked",
		Payload: nil,
	})

	c.broadcast(ctx, kickResp.Clients, &Output{
		Type:    "party_notification",
		Payload: map[string]any{"msg": kickResp.Target.Username + " was kicked from the party"},
	})
	c.broadcastPartyUsers(ctx, kickResp.Clients, kickResp.Users, kickResp.HostId)

	return nil
}

type PartyActionInput struct {
	Type  string        `json:"type" validate:"required"`
	Room  string        `json:"room"`
	Song  *domain.Song  `json:"song"`
	Id    string        `json:"id"`
	Time  *float64      `json:"time"`
	Queue []domain.Song `json:"queue"`
}

func (c controller) handlePartyAction(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input PartyActionInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("invalid payload: %v", validationErrors)
	}

	client := c.getClientFromCtx(ctx)
	if client == nil {
		return fmt.Errorf("no client in context")
	}

	switch input.Type {
	case "set-song":
		return c.handleSetSong(ctx, client, &input, payload)
	case "play":
		return c.handlePlayPause(ctx, client, true, input.Time, payload)
	case "pause":
		return c.handlePlayPause(ctx, client, false, input.Time, payload)
	case "seek":
		return c.handleSeek(ctx, client, &input, payload)
	case "add-to-queue":
		return c.handleAddToQueue(ctx, client, &input, payload)
	case "remove-from-queue":
		return c.handleRemoveFromQueue(ctx, client, &input, payload)
	case "update-queue":
		return c.handleUpdateQueue(ctx, client, &input, payload)
	default:
		return fmt.Errorf("unknown action type: %s", input.Type)
	}
}

func (c controller) handleSetSong(ctx context.Context, client *domain.Client, input *PartyActionInput, payload json.RawMessage) error {
	if input.Song == nil {
		return fmt.Errorf("set-song without song")
	}

	setSongResp, err := c.partyService.SetSong(ctx, &party.SetSongParams{
		SenderConnId: client.Id,
		Song:         *input.Song,
	})
	if err != nil {
		return fmt.Errorf("failed to set song: %w", err)
	}

	// The action payload is echoed unmodified; it already carries a freshly
	// authored time.
	c.broadcast(ctx, setSongResp.Clients, &Output{
		Type:    "party_update",
		Payload: payload,
	})

	return nil
}

func (c controller) handlePlayPause(ctx context.Context, client *domain.Client, isPlaying bool, time *float64, payload json.RawMessage) error {
	updateResp, err := c.partyService.UpdatePlayerState(ctx, &party.UpdatePlayerStateParams{
		SenderConnId: client.Id,
		IsPlaying:    isPlaying,
		Time:         time,
	})
	if err != nil {
		return fmt.Errorf("failed to update player state: %w", err)
	}

	// Re-stamp the broadcast with the authoritative time so stale client
	// values never propagate.
	var action map[string]any
	if err := json.Unmarshal(payload, &action); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	action["time"] = updateResp.Time

	c.broadcast(ctx, updateResp.Clients, &Output{
		Type:    "party_update",
		Payload: action,
	})

	return nil
}

func (c controller) handleSeek(ctx context.Context, client *domain.Client, input *PartyActionInput, payload json.RawMessage) error {
	if input.Time == nil {
		return fmt.Errorf("seek without time")
	}

	seekResp, err := c.partyService.Seek(ctx, &party.SeekParams{
		SenderConnId: client.Id,
		Time:         *input.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	c.broadcast(ctx, seekResp.Clients, &Output{
		Type:    "party_update",
		Payload: payload,
	})

	return nil
}

func (c controller) handleAddToQueue(ctx context.Context, client *domain.Client, input *PartyActionInput, payload json.RawMessage) error {
	if input.Song == nil {
		return fmt.Errorf("add-to-queue without song")
	}

	addResp, err := c.partyService.AddToQueue(ctx, &party.AddToQueueParams{
		SenderConnId: client.Id,
		Song:         *input.Song,
	})
	if err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	c.broadcast(ctx, addResp.Clients, &Output{
		Type:    "party_update",
		Payload: payload,
	})

	return nil
}

func (c controller) handleRemoveFromQueue(ctx context.Context, client *domain.Client, input *PartyActionInput, payload json.RawMessage) error {
	songId := input.Id
	if input.Song != nil {
		songId = input.Song.Id
	}

	removeResp, err := c.partyService.RemoveFromQueue(ctx, &party.RemoveFromQueueParams{
		SenderConnId: client.Id,
		SongId:       songId,
	})
	if err != nil {
		return fmt.Errorf("failed to remove from queue: %w", err)
	}

	c.broadcast(ctx, removeResp.Clients, &Output{
		Type:    "party_update",
		Payload: payload,
	})

	return nil
}

func (c controller) handleUpdateQueue(ctx context.Context, client *domain.Client, input *PartyActionInput, payload json.RawMessage) error {
	if input.Queue == nil {
		return fmt.Errorf("update-queue without queue")
	}

	reorderResp, err := c.partyService.ReorderQueue(ctx, &party.ReorderQueueParams{
		SenderConnId: client.Id,
		Queue:        input.Queue,
	})
	if err != nil {
		return fmt.Errorf("failed to reorder queue: %w", err)
	}

	c.broadcast(ctx, reorderResp.Clients, &Output{
		Type:    "party_update",
		Payload: payload,
	})

	return nil
}

type RelayInput struct {
	Room string `json:"room"`
}

func (c controller) handlePartyChat(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input RelayInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	client := c.getClientFromCtx(ctx)
	if client == nil {
		return fmt.Errorf("no client in context")
	}

	relayResp, err := c.partyService.RelayChat(ctx, &party.RelayParams{
		SenderConnId: client.Id,
		RoomId:       input.Room,
	})
	if err != nil {
		return fmt.Errorf("failed to relay chat: %w", err)
	}

	c.broadcast(ctx, relayResp.Clients, &Output{
		Type:    "party_chat",
		Payload: payload,
	})

	return nil
}

func (c controller) handleTyping(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input RelayInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	client := c.getClientFromCtx(ctx)
	if client == nil {
		return fmt.Errorf("no client in context")
	}

	relayResp, err := c.partyService.RelayTyping(ctx, &party.RelayParams{
		SenderConnId: client.Id,
		RoomId:       input.Room,
	})
	if err != nil {
		return fmt.Errorf("failed to relay typing: %w", err)
	}

	c.broadcast(ctx, relayResp.Clients, &Output{
		Type:    "typing",
		Payload: payload,
	})

	return nil
}
