package domain

// Song is the canonical track shape produced by the catalog collaborator.
// The engine carries it opaquely and never interprets the fields beyond Id.
type Song struct {
	Id       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	ArtistId *string `json:"artistId,omitempty"`
	Thumb    string  `json:"thumb"`
	Duration float64 `json:"duration"`
}

// PlaybackState is the single authoritative copy of a party's player.
// Every client's local state is a replica converging to it via broadcasts.
type PlaybackState struct {
	Song      *Song   `json:"song"`
	IsPlaying bool    `json:"isPlaying"`
	Time      float64 `json:"time"`
	Queue     []Song  `json:"queue"`
}

// NewPlaybackState returns the empty default state a fresh party starts with.
func NewPlaybackState() PlaybackState {
	return PlaybackState{
		Song:      nil,
		IsPlaying: false,
		Time:      0,
		Queue:     []Song{},
	}
}
