package party

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrAlreadyInParty    = errors.New("already in a party")
	ErrSongAlreadyQueued = errors.New("song already queued")
	ErrPartyFull         = errors.New("party is full")
	ErrQueueFull         = errors.New("queue is full")
)
