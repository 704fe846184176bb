package gateway

import (
	"context"
	"strings"

	"github.com/gorilla/websocket"

	"secretto/internal/domain"
)

// Stream is one live event channel to the server.
type Stream struct {
	ws *websocket.Conn
}

// Dial opens the websocket and registers the identity, so pushes for user
// start flowing to this stream.
func (c *Client) Dial(ctx context.Context, user domain.UserID) (*Stream, error) {
	wsURL := toWS(c.Base) + "/v1/ws"
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		resp.Body.Close()
	}

	s := &Stream{ws: ws}
	reg, err := domain.NewEvent(domain.EventRegister, domain.RegisterPayload{UserID: user})
	if err != nil {
		ws.Close()
		return nil, err
	}
	if err := s.Send(reg); err != nil {
		ws.Close()
		return nil, err
	}
	return s, nil
}

// Send writes one event frame.
func (s *Stream) Send(ev domain.Event) error {
	return s.ws.WriteJSON(ev)
}

// SendMessage emits a send_message event.
func (s *Stream) SendMessage(sessionID string, sender domain.UserID, content domain.Content, nonce string) error {
	ev, err := domain.NewEvent(domain.EventSendMessage, domain.SendMessagePayload{
		SessionID: sessionID,
		SenderID:  sender,
		Content:   content,
		Nonce:     nonce,
	})
	if err != nil {
		return err
	}
	return s.Send(ev)
}

// Next blocks for the next pushed event.
func (s *Stream) Next() (domain.Event, error) {
	var ev domain.Event
	err := s.ws.ReadJSON(&ev)
	return ev, err
}

// Close tears the stream down; the server unregisters the presence entry.
func (s *Stream) Close() error {
	return s.ws.Close()
}

func toWS(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
