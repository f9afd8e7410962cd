package party

// User is the wire representation of a party member carried in party_users
// payloads. The host flag is computed against the room's host connection.
type User struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	IsHost bool   `json:"isHost"`
}
