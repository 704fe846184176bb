package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"secretto/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameBytes  = 1 << 20
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser clients connect from the app origin; the excluded outer
	// system is responsible for origin policy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsConn adapts one websocket to domain.Conn. Writes go through a buffered
// channel drained by a single write pump, so Push never interleaves frames.
type wsConn struct {
	ws   *websocket.Conn
	send chan domain.Event
	done chan struct{}
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{
		ws:   ws,
		send: make(chan domain.Event, sendBufferSize),
		done: make(chan struct{}),
	}
}

// Push queues ev for delivery. A closed or saturated connection reports an
// error; the caller treats that as a missed best-effort delivery.
func (c *wsConn) Push(ev domain.Event) error {
	select {
	case <-c.done:
		return errors.New("connection closed")
	case c.send <- ev:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleWS upgrades the connection and runs the read loop. The first
// register event binds the socket to an identity; send_message events are
// handed to the router.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warningf("ws upgrade: %v", err)
		return
	}
	conn := newWSConn(ws)
	go conn.writePump()

	defer func() {
		close(conn.done)
		s.presence.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadLimit(maxFrameBytes)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var ev domain.Event
		if err := ws.ReadJSON(&ev); err != nil {
			return
		}
		switch ev.Name {
		case domain.EventRegister:
			var p domain.RegisterPayload
			if err := json.Unmarshal(ev.Data, &p); err != nil || p.UserID == "" {
				s.log.Warningf("ws register: bad payload")
				continue
			}
			s.presence.Register(p.UserID, conn)
		case domain.EventSendMessage:
			var p domain.SendMessagePayload
			if err := json.Unmarshal(ev.Data, &p); err != nil {
				s.log.Warningf("ws send_message: bad payload")
				continue
			}
			if err := s.router.HandleIncoming(r.Context(), p.SessionID, p.SenderID, p.Content, p.Nonce); err != nil {
				s.log.Errorf("route message: %v", err)
			}
		default:
			s.log.Debugf("ws: ignoring event %q", ev.Name)
		}
	}
}
