// Package protocol defines the JSON frames exchanged with WebSocket clients.
package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeAct     = "ACT"
	TypeJoin    = "JOIN"
	TypeWelcome = "WELCOME"
	TypeEnter   = "ENTER"
	TypeTurn    = "TURN"
	TypeLimbo   = "LIMBO"
	TypeEnded   = "ENDED"
	TypeError   = "ERROR"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
