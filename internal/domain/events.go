package domain

import "encoding/json"

// Wire event names. Inbound events arrive from clients over the websocket;
// outbound events are pushed to live connections.
const (
	EventRegister       = "register"        // inbound
	EventSendMessage    = "send_message"    // inbound
	EventReceiveMessage = "receive_message" // outbound
	EventNewChat        = "new_chat"        // outbound
	EventChatAborted    = "chat_aborted"    // outbound
)

// Event is one frame on the bidirectional event channel.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// RegisterPayload binds a connection to a user identity.
type RegisterPayload struct {
	UserID UserID `json:"user_id"`
}

// SendMessagePayload is the inbound ciphertext event.
type SendMessagePayload struct {
	SessionID string  `json:"session_id"`
	SenderID  UserID  `json:"sender_id"`
	Content   Content `json:"content"`
	Nonce     string  `json:"nonce,omitempty"`
}

// ReceiveMessagePayload carries the full persisted message, including the
// server-assigned timestamp.
type ReceiveMessagePayload struct {
	SessionID string  `json:"session_id"`
	Message   Message `json:"message"`
}

// ChatAbortedPayload notifies participants that a session expired.
type ChatAbortedPayload struct {
	SessionID string `json:"session_id"`
}

// NewEvent marshals payload into an Event frame.
func NewEvent(name string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Data: data}, nil
}
