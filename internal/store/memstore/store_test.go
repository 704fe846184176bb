package memstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"secretto/internal/domain"
	"secretto/internal/store/memstore"
)

func newStore() *memstore.Store {
	n := 0
	return memstore.New(func() string {
		n++
		return fmt.Sprintf("blob-%d", n)
	})
}

func mkSession(id string, expires *time.Time) domain.Session {
	now := time.Now().UTC()
	return domain.Session{
		ID:           id,
		Name:         "test",
		Participants: [2]domain.UserID{"alice", "bob"},
		ExpiresAt:    expires,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAppend_Order(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	if err := s.Create(ctx, mkSession("s1", nil)); err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 5; i++ {
		ok, err := s.AppendMessage(ctx, "s1", domain.Message{
			ID:        fmt.Sprintf("m%d", i),
			Sender:    "alice",
			Timestamp: time.Now().UTC(),
		})
		if err != nil || !ok {
			t.Fatalf("append %d: ok=%v err=%v", i, ok, err)
		}
	}

	got, ok, err := s.Find(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if len(got.Messages) != 5 {
		t.Fatalf("want 5 messages, got %d", len(got.Messages))
	}
	for i, m := range got.Messages {
		if m.ID != fmt.Sprintf("m%d", i) {
			t.Fatalf("message %d out of order: %s", i, m.ID)
		}
	}
}

func TestAppend_UnknownSession(t *testing.T) {
	s := newStore()
	ok, err := s.AppendMessage(context.Background(), "nope", domain.Message{Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ok {
		t.Fatal("append to unknown session must report ok=false")
	}
}

func TestAppendAfterDelete_NoResurrection(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	if err := s.Create(ctx, mkSession("s1", nil)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	ok, err := s.AppendMessage(ctx, "s1", domain.Message{ID: "late", Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ok {
		t.Fatal("append after delete must not succeed")
	}
	if _, found, _ := s.Find(ctx, "s1"); found {
		t.Fatal("deleted session resurrected")
	}

	// Deleting again is a no-op, not an error.
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestAppend_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	past := time.Now().UTC().Add(-time.Second)
	if err := s.Create(ctx, mkSession("old", &past)); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := s.AppendMessage(ctx, "old", domain.Message{ID: "m", Timestamp: time.Now().UTC()})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ok {
		t.Fatal("append to expired session must not succeed")
	}
}

func TestFindExpired(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	now := time.Now().UTC()
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	if err := s.Create(ctx, mkSession("dead", &past)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, mkSession("alive", &future)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, mkSession("forever", nil)); err != nil {
		t.Fatalf("create: %v", err)
	}

	expired, err := s.FindExpired(ctx, now)
	if err != nil {
		t.Fatalf("find expired: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != "dead" {
		t.Fatalf("want only 'dead' expired, got %+v", expired)
	}
}

func TestFindByParticipant(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	if err := s.Create(ctx, mkSession("s1", nil)); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := mkSession("s2", nil)
	other.Participants = [2]domain.UserID{"carol", "dave"}
	if err := s.Create(ctx, other); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.FindByParticipant(ctx, "alice")
	if err != nil {
		t.Fatalf("find by participant: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("want [s1], got %+v", got)
	}
}

func TestBlobs(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	id, err := s.Put(ctx, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	b, ok, err := s.Get(ctx, id)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(b) != 3 || b[0] != 1 {
		t.Fatal("blob mismatch")
	}
	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Fatal("missing blob must report ok=false")
	}
}
