package party

import "context"

type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}

func (s service) GetStats(ctx context.Context) Stats {
	return Stats{
		Rooms:       len(s.roomRepo.RoomIds(ctx)),
		Connections: s.connRepo.Len(),
	}
}
