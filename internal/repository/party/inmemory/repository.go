package inmemory

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/partywave/server/internal/domain"
	"github.com/partywave/server/internal/repository/party"
)

type member struct {
	userId    string
	username  string
	avatarURL string
	// joinedAt orders members for deterministic host reassignment.
	joinedAt uint64
}

type room struct {
	mu      sync.Mutex
	host    domain.ConnectionId
	members map[domain.ConnectionId]*member
	state   domain.PlaybackState
	joinSeq uint64
}

// repo is the in-process room authority: rooms keyed by normalized id plus a
// connection -> room index. Registry-shape mutations (join, leave, kick) take
// the registry write lock so membership and room existence stay consistent at
// every boundary; room-local mutations run under the registry read lock plus
// the room's own mutex, so distinct rooms proceed in parallel. Lock order is
// always registry then room.
type repo struct {
	mu           sync.RWMutex
	rooms        map[string]*room
	connRoom     map[domain.ConnectionId]string
	membersLimit int
	queueLimit   int
}

// NewRepo creates an empty registry. A limit of 0 means unlimited.
func NewRepo(membersLimit, queueLimit int) *repo {
	return &repo{
		rooms:    make(map[string]*room),
		connRoom: make(map[domain.ConnectionId]string),

		membersLimit: membersLimit,
		queueLimit:   queueLimit,
	}
}

func (r *repo) snapshotLocked(roomId string, rm *room) party.RoomSnapshot {
	connIds := make([]domain.ConnectionId, 0, len(rm.members))
	for connId := range rm.members {
		connIds = append(connIds, connId)
	}
	sort.Slice(connIds, func(i, j int) bool {
		return rm.members[connIds[i]].joinedAt < rm.members[connIds[j]].joinedAt
	})

	members := make([]party.MemberInfo, 0, len(connIds))
	hostUserId := ""
	for _, connId := range connIds {
		m := rm.members[connId]
		isHost := connId == rm.host
		if isHost {
			hostUserId = m.userId
		}
		members = append(members, party.MemberInfo{
			UserId:    m.userId,
			Username:  m.username,
			AvatarURL: m.avatarURL,
			IsHost:    isHost,
		})
	}

	return party.RoomSnapshot{
		RoomId:     roomId,
		Members:    members,
		HostUserId: hostUserId,
		ConnIds:    connIds,
	}
}

// reassignHostLocked hands the host role to the earliest still-present
// joiner. Caller holds the room lock and has already removed the old host.
func (rm *room) reassignHostLocked() {
	var next domain.ConnectionId
	var earliest uint64
	for connId, m := range rm.members {
		if next == "" || m.joinedAt < earliest {
			next = connId
			earliest = m.joinedAt
		}
	}
	rm.host = next
}

func copyState(state domain.PlaybackState) domain.PlaybackState {
	out := state
	out.Queue = append([]domain.Song{}, state.Queue...)
	return out
}

func (r *repo) AddMember(_ context.Context, params *party.AddMemberParams) (party.AddMemberResult, error) {
	roomId := party.NormalizeRoomId(params.RoomId)
	if roomId == "" {
		return party.AddMemberResult{}, party.ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.connRoom[params.ConnId]; ok {
		return party.AddMemberResult{}, party.ErrAlreadyInParty
	}

	rm, ok := r.rooms[roomId]
	created := !ok
	if !ok {
		rm = &room{
			members: make(map[domain.ConnectionId]*member),
			state:   domain.NewPlaybackState(),
		}
		r.rooms[roomId] = rm
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if r.membersLimit > 0 && len(rm.members) >= r.membersLimit {
		return party.AddMemberResult{}, party.ErrPartyFull
	}

	rm.joinSeq++
	rm.members[params.ConnId] = &member{
		userId:    params.UserId,
		username:  params.Username,
		avatarURL: params.AvatarURL,
		joinedAt:  rm.joinSeq,
	}
	if len(rm.members) == 1 {
		rm.host = params.ConnId
	}
	r.connRoom[params.ConnId] = roomId

	return party.AddMemberResult{
		RoomSnapshot: r.snapshotLocked(roomId, rm),
		State:        copyState(rm.state),
		Created:      created,
	}, nil
}

func (r *repo) RemoveMember(_ context.Context, connId domain.ConnectionId) (party.RemoveMemberResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomId, ok := r.connRoom[connId]
	if !ok {
		return party.RemoveMemberResult{}, party.ErrMemberNotFound
	}
	delete(r.connRoom, connId)

	rm := r.rooms[roomId]
	rm.mu.Lock()
	defer rm.mu.Unlock()

	m, ok := rm.members[connId]
	if !ok {
		return party.RemoveMemberResult{}, party.ErrMemberNotFound
	}
	delete(rm.members, connId)

	removed := domain.Member{
		UserId:    m.userId,
		Username:  m.username,
		AvatarURL: m.avatarURL,
	}

	if len(rm.members) == 0 {
		delete(r.rooms, roomId)
		return party.RemoveMemberResult{
			RoomSnapshot:  party.RoomSnapshot{RoomId: roomId},
			Removed:       removed,
			RoomDestroyed: true,
		}, nil
	}

	if rm.host == connId {
		rm.reassignHostLocked()
	}

	return party.RemoveMemberResult{
		RoomSnapshot: r.snapshotLocked(roomId, rm),
		Removed:      removed,
	}, nil
}

func (r *repo) KickMember(_ context.Context, params *party.KickMemberParams) (party.KickMemberResult, error) {
	roomId := party.NormalizeRoomId(params.RoomId)

	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return party.KickMemberResult{}, party.ErrRoomNotFound
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.host != params.SenderConnId {
		return party.KickMemberResult{}, party.ErrPermissionDenied
	}

	// Kick targets are addressed by external user id, not connection.
	var targetConnId domain.ConnectionId
	var target *member
	for connId, m := range rm.members {
		if m.userId == params.TargetUserId {
			targetConnId = connId
			target = m
			break
		}
	}
	if target == nil {
		return party.KickMemberResult{}, party.ErrMemberNotFound
	}

	delete(rm.members, targetConnId)
	delete(r.connRoom, targetConnId)

	result := party.KickMemberResult{
		Target: domain.Member{
			UserId:    target.userId,
			Username:  target.username,
			AvatarURL: target.avatarURL,
		},
		TargetConnId: targetConnId,
	}

	if len(rm.members) == 0 {
		delete(r.rooms, roomId)
		result.RoomSnapshot = party.RoomSnapshot{RoomId: roomId}
		result.RoomDestroyed = true
		return result, nil
	}

	if rm.host == targetConnId {
		rm.reassignHostLocked()
	}
	result.RoomSnapshot = r.snapshotLocked(roomId, rm)

	return result, nil
}

func (r *repo) GetRoomIdByConn(_ context.Context, connId domain.ConnectionId) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomId, ok := r.connRoom[connId]
	if !ok {
		return "", party.ErrMemberNotFound
	}

	return roomId, nil
}

// lockRoom looks a room up under the registry read lock and returns it with
// its mutex held. The read lock is kept for the whole mutation so the room
// cannot be destroyed underneath it.
func (r *repo) lockRoom(roomId string) (*room, func(), error) {
	r.mu.RLock()
	rm, ok := r.rooms[party.NormalizeRoomId(roomId)]
	if !ok {
		r.mu.RUnlock()
		return nil, nil, party.ErrRoomNotFound
	}
	rm.mu.Lock()

	return rm, func() {
		rm.mu.Unlock()
		r.mu.RUnlock()
	}, nil
}

func (rm *room) connIdsLocked() []domain.ConnectionId {
	connIds := make([]domain.ConnectionId, 0, len(rm.members))
	for connId := range rm.members {
		connIds = append(connIds, connId)
	}
	sort.Slice(connIds, func(i, j int) bool {
		return rm.members[connIds[i]].joinedAt < rm.members[connIds[j]].joinedAt
	})

	return connIds
}

func (r *repo) SetSong(_ context.Context, params *party.SetSongParams) ([]domain.ConnectionId, error) {
	rm, unlock, err := r.lockRoom(params.RoomId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if rm.host != params.SenderConnId {
		return nil, party.ErrPermissionDenied
	}

	song := params.Song
	rm.state.Song = &song
	rm.state.Time = 0
	rm.state.IsPlaying = true

	return rm.connIdsLocked(), nil
}

func (r *repo) UpdatePlayerState(_ context.Context, params *party.UpdatePlayerStateParams) (party.UpdatePlayerStateResult, error) {
	rm, unlock, err := r.lockRoom(params.RoomId)
	if err != nil {
		return party.UpdatePlayerStateResult{}, err
	}
	defer unlock()

	if rm.host != params.SenderConnId {
		return party.UpdatePlayerStateResult{}, party.ErrPermissionDenied
	}

	rm.state.IsPlaying = params.IsPlaying
	if params.Time != nil {
		rm.state.Time = *params.Time
	}

	return party.UpdatePlayerStateResult{
		Time:    rm.state.Time,
		ConnIds: rm.connIdsLocked(),
	}, nil
}

func (r *repo) Seek(_ context.Context, params *party.SeekParams) ([]domain.ConnectionId, error) {
	rm, unlock, err := r.lockRoom(params.RoomId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if rm.host != params.SenderConnId {
		return nil, party.ErrPermissionDenied
	}

	rm.state.Time = params.Time

	return rm.connIdsLocked(), nil
}

func (r *repo) AddToQueue(_ context.Context, params *party.AddToQueueParams) ([]domain.ConnectionId, error) {
	rm, unlock, err := r.lockRoom(params.RoomId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, entry := range rm.state.Queue {
		if entry.Id == params.Song.Id {
			return nil, party.ErrSongAlreadyQueued
		}
	}
	if r.queueLimit > 0 && len(rm.state.Queue) >= r.queueLimit {
		return nil, party.ErrQueueFull
	}

	rm.state.Queue = append(rm.state.Queue, params.Song)

	return rm.connIdsLocked(), nil
}

func (r *repo) RemoveFromQueue(_ context.Context, params *party.RemoveFromQueueParams) ([]domain.ConnectionId, error) {
	rm, unlock, err := r.lockRoom(params.RoomId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	queue := rm.state.Queue[:0]
	for _, entry := range rm.state.Queue {
		if entry.Id != params.SongId {
			queue = append(queue, entry)
		}
	}
	rm.state.Queue = queue

	return rm.connIdsLocked(), nil
}

func (r *repo) ReplaceQueue(_ context.Context, params *party.ReplaceQueueParams) ([]domain.ConnectionId, error) {
	rm, unlock, err := r.lockRoom(params.RoomId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rm.state.Queue = append([]domain.Song{}, params.Queue...)

	return rm.connIdsLocked(), nil
}

func (r *repo) GetRoomConnIds(_ context.Context, roomId string) ([]domain.ConnectionId, error) {
	rm, unlock, err := r.lockRoom(roomId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return rm.connIdsLocked(), nil
}

func (r *repo) GetRoomState(_ context.Context, roomId string) (domain.PlaybackState, error) {
	rm, unlock, err := r.lockRoom(roomId)
	if err != nil {
		return domain.PlaybackState{}, err
	}
	defer unlock()

	return copyState(rm.state), nil
}

func (r *repo) RoomIds(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := maps.Keys(r.rooms)
	sort.Strings(ids)

	return ids
}
