// ABOUTME: Remote-control message definitions
// ABOUTME: JSON envelope and payloads for the WebSocket surface
package remote

// Message is the JSON envelope for all remote-control traffic
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Message types
const (
	TypeHello    = "server/hello"
	TypeCommand  = "transport/command"
	TypePosition = "player/position"
)

// Transport command actions
const (
	ActionPlay   = "play"
	ActionPause  = "pause"
	ActionStop   = "stop"
	ActionReset  = "reset"
	ActionSeek   = "seek"
	ActionVolume = "volume"
)

// Hello is sent once when a remote connects
type Hello struct {
	Product    string `json:"product"`
	Version    string `json:"version"`
	PlayerName string `json:"player_name"`
}

// Command is an inbound transport request
type Command struct {
	Action   string  `json:"action"`
	Position float64 `json:"position,omitempty"`
	Volume   float64 `json:"volume,omitempty"`
}

// PositionUpdate is the outbound playback state broadcast
type PositionUpdate struct {
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
	Playing  bool    `json:"playing"`
	Paused   bool    `json:"paused"`
	Volume   float64 `json:"volume"`
}
