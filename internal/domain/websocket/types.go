// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"
	EventTypeConnected EventType = "connected"
	EventTypeError     EventType = "error"

	// Lead events (server -> broker client)
	EventTypeLeadCreated EventType = "lead:created"
	EventTypeBoardUpdate EventType = "pipeline:board"

	// Subscription management (client -> server)
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"

	// Session events
	EventTypeSessionExpired EventType = "session:expired"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	ID        string      `json:"id,omitempty"`
}

// ChannelType groups events a client can subscribe to.
type ChannelType string

const (
	ChannelLeads    ChannelType = "leads"
	ChannelPipeline ChannelType = "pipeline"
)

// NewMessage builds a timestamped message.
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// ParseMessage decodes a raw client frame.
func ParseMessage(raw []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ToJSON serializes the message for the wire.
func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ErrorData is the payload of error events.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SubscribeRequest is the payload of subscribe/unsubscribe events.
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}
