package router_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"secretto/internal/domain"
	"secretto/internal/log"
	"secretto/internal/presence"
	"secretto/internal/router"
	"secretto/internal/store/memstore"
)

type recordingConn struct {
	events []domain.Event
}

func (c *recordingConn) Push(ev domain.Event) error {
	c.events = append(c.events, ev)
	return nil
}

func newStore() *memstore.Store {
	n := 0
	return memstore.New(func() string { n++; return fmt.Sprintf("b%d", n) })
}

func createSession(t *testing.T, s *memstore.Store, id string) {
	t.Helper()
	now := time.Now().UTC()
	err := s.Create(context.Background(), domain.Session{
		ID:           id,
		Name:         "chat",
		Participants: [2]domain.UserID{"alice", "bob"},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
}

func textContent(body string) domain.Content {
	return domain.Content{Kind: domain.TextContent, Body: body}
}

func TestHandleIncoming_PersistsAndFansOut(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	pres := presence.New()
	r := router.New(store, pres, log.NewDiscard())
	createSession(t, store, "s1")

	bobConn := &recordingConn{}
	pres.Register("bob", bobConn)
	aliceConn := &recordingConn{}
	pres.Register("alice", aliceConn)

	if err := r.HandleIncoming(ctx, "s1", "alice", textContent("ct"), "n1"); err != nil {
		t.Fatalf("handle incoming: %v", err)
	}

	sess, ok, _ := store.Find(ctx, "s1")
	if !ok || len(sess.Messages) != 1 {
		t.Fatalf("message not persisted: %+v", sess.Messages)
	}
	m := sess.Messages[0]
	if m.Sender != "alice" || m.Content.Body != "ct" || m.Nonce != "n1" {
		t.Fatalf("persisted message mismatch: %+v", m)
	}
	if m.ID == "" || m.Timestamp.IsZero() {
		t.Fatal("router must assign id and server timestamp")
	}

	if len(bobConn.events) != 1 {
		t.Fatalf("bob should receive 1 event, got %d", len(bobConn.events))
	}
	if bobConn.events[0].Name != domain.EventReceiveMessage {
		t.Fatalf("unexpected event %q", bobConn.events[0].Name)
	}
	if len(aliceConn.events) != 0 {
		t.Fatal("sender must not receive their own message")
	}
}

func TestHandleIncoming_OfflineRecipientStillPersisted(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	pres := presence.New()
	r := router.New(store, pres, log.NewDiscard())
	createSession(t, store, "s1")

	// Bob is offline. The write path must still succeed.
	if err := r.HandleIncoming(ctx, "s1", "alice", textContent("ct"), "n"); err != nil {
		t.Fatalf("handle incoming: %v", err)
	}

	// Bob comes online later and fetches session state; the message is
	// there.
	sessions, err := store.FindByParticipant(ctx, "bob")
	if err != nil {
		t.Fatalf("find by participant: %v", err)
	}
	if len(sessions) != 1 || len(sessions[0].Messages) != 1 {
		t.Fatal("message missing after recipient reconnects")
	}
}

func TestHandleIncoming_UnknownSession_SilentDrop(t *testing.T) {
	store := newStore()
	pres := presence.New()
	r := router.New(store, pres, log.NewDiscard())

	if err := r.HandleIncoming(context.Background(), "ghost", "alice", textContent("ct"), "n"); err != nil {
		t.Fatalf("drop must not surface an error, got %v", err)
	}
}

func TestHandleIncoming_NonParticipant_Drop(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	pres := presence.New()
	r := router.New(store, pres, log.NewDiscard())
	createSession(t, store, "s1")

	if err := r.HandleIncoming(ctx, "s1", "mallory", textContent("ct"), "n"); err != nil {
		t.Fatalf("drop must not surface an error, got %v", err)
	}
	sess, _, _ := store.Find(ctx, "s1")
	if len(sess.Messages) != 0 {
		t.Fatal("non-participant message must not be persisted")
	}
}

func TestHandleIncoming_ExpiredSession_Drop(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	pres := presence.New()
	r := router.New(store, pres, log.NewDiscard())

	past := time.Now().UTC().Add(-time.Second)
	now := time.Now().UTC()
	_ = store.Create(ctx, domain.Session{
		ID:           "old",
		Participants: [2]domain.UserID{"alice", "bob"},
		ExpiresAt:    &past,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	bobConn := &recordingConn{}
	pres.Register("bob", bobConn)

	if err := r.HandleIncoming(ctx, "old", "alice", textContent("ct"), "n"); err != nil {
		t.Fatalf("handle incoming: %v", err)
	}
	if len(bobConn.events) != 0 {
		t.Fatal("expired session must not be deliverable")
	}
	sess, _, _ := store.Find(ctx, "old")
	if len(sess.Messages) != 0 {
		t.Fatal("expired session must not accept appends")
	}
}
