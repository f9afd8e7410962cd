package party

import (
	"strings"

	"github.com/partywave/server/internal/domain"
)

// NormalizeRoomId trims and case-folds a client-supplied room identifier so
// that syntactically different spellings of the same room always collide.
func NormalizeRoomId(roomId string) string {
	return strings.ToLower(strings.TrimSpace(roomId))
}

// MemberInfo is a member snapshot taken inside the room lock, with the host
// flag already resolved against the room's current host connection.
type MemberInfo struct {
	UserId    string
	Username  string
	AvatarURL string
	IsHost    bool
}

// RoomSnapshot captures everything a broadcast needs about a room at the
// moment a mutation was applied: the ordered member list (join order), the
// host's user id and the connection ids to deliver to.
type RoomSnapshot struct {
	RoomId     string
	Members    []MemberInfo
	HostUserId string
	ConnIds    []domain.ConnectionId
}

type AddMemberParams struct {
	ConnId    domain.ConnectionId
	RoomId    string
	UserId    string
	Username  string
	AvatarURL string
}

type AddMemberResult struct {
	RoomSnapshot
	State   domain.PlaybackState
	Created bool
}

type RemoveMemberResult struct {
	RoomSnapshot
	Removed       domain.Member
	RoomDestroyed bool
}

type KickMemberParams struct {
	SenderConnId domain.ConnectionId
	RoomId       string
	TargetUserId string
}

type KickMemberResult struct {
	RoomSnapshot
	Target        domain.Member
	TargetConnId  domain.ConnectionId
	RoomDestroyed bool
}

type SetSongParams struct {
	SenderConnId domain.ConnectionId
	RoomId       string
	Song         domain.Song
}

type UpdatePlayerStateParams struct {
	SenderConnId domain.ConnectionId
	RoomId       string
	IsPlaying    bool
	// Time is optional: when nil the authoritative time is left unchanged.
	Time *float64
}

type UpdatePlayerStateResult struct {
	// Time is the authoritative playback position after the mutation.
	Time    float64
	ConnIds []domain.ConnectionId
}

type SeekParams struct {
	SenderConnId domain.ConnectionId
	RoomId       string
	Time         float64
}

type AddToQueueParams struct {
	RoomId string
	Song   domain.Song
}

type RemoveFromQueueParams struct {
	RoomId string
	SongId string
}

type ReplaceQueueParams struct {
	RoomId string
	Queue  []domain.Song
}
