package router

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/op/go-logging.v1"

	"secretto/internal/domain"
	"secretto/internal/log"
)

// Router routes one inbound message event: persist first, then fan out.
type Router struct {
	store    domain.SessionStore
	presence domain.Presence
	log      *logging.Logger
	now      func() time.Time
}

// New constructs a Router.
func New(store domain.SessionStore, pres domain.Presence, logBackend *log.Backend) *Router {
	return &Router{
		store:    store,
		presence: pres,
		log:      logBackend.GetLogger("router"),
		now:      time.Now,
	}
}

// HandleIncoming persists content as a new message on the session and
// pushes it to every other live participant.
//
// Drops (unknown session, expired session, sender not a participant, or a
// delete racing the append) return nil: this channel is fire-and-forget
// and the sender is never told. Store I/O failures do bubble up.
func (r *Router) HandleIncoming(ctx context.Context, sessionID string, sender domain.UserID, content domain.Content, nonce string) error {
	now := r.now().UTC()

	sess, ok, err := r.store.Find(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if !ok || sess.Expired(now) {
		r.log.Infof("drop: session %s not deliverable", sessionID)
		return nil
	}
	if !sess.HasParticipant(sender) {
		r.log.Infof("drop: %s is not a participant of session %s", sender, sessionID)
		return nil
	}

	msg := domain.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Nonce:     nonce,
		Timestamp: now,
	}
	appended, err := r.store.AppendMessage(ctx, sessionID, msg)
	if err != nil {
		return fmt.Errorf("append to session %s: %w", sessionID, err)
	}
	if !appended {
		// The session was deleted or expired between load and append.
		r.log.Infof("drop: session %s vanished before append", sessionID)
		return nil
	}

	ev, err := domain.NewEvent(domain.EventReceiveMessage, domain.ReceiveMessagePayload{
		SessionID: sessionID,
		Message:   msg,
	})
	if err != nil {
		return err
	}
	for _, p := range sess.Participants {
		if p == sender {
			continue
		}
		conn, online := r.presence.Lookup(p)
		if !online {
			continue
		}
		if err := conn.Push(ev); err != nil {
			// At-most-once: a failed push is not retried.
			r.log.Warningf("push to %s failed: %v", p, err)
		}
	}
	return nil
}
