package domain

// ConnectionId identifies a live websocket connection. It is assigned by the
// server at upgrade time and is deliberately distinct from the external user
// id: kick and presence logic resolve members by user id, while membership
// and host authority are keyed by connection.
type ConnectionId string

// Member is a connection's presence record within a party.
type Member struct {
	UserId    string `json:"id"`
	Username  string `json:"name"`
	AvatarURL string `json:"avatar"`
}
