package domain

import (
	"context"
	"time"
)

// SessionStore persists sessions and their transcripts. Append and Delete
// are individually atomic; an append against a deleted or expired session
// must report ok=false rather than resurrect it.
type SessionStore interface {
	Find(ctx context.Context, id string) (Session, bool, error)
	FindByParticipant(ctx context.Context, user UserID) ([]Session, error)
	FindExpired(ctx context.Context, now time.Time) ([]Session, error)
	Create(ctx context.Context, sess Session) error
	AppendMessage(ctx context.Context, id string, msg Message) (bool, error)
	Delete(ctx context.Context, id string) error
}

// KeyDirectory maps a user id to their published public key (base64).
type KeyDirectory interface {
	PublishKey(ctx context.Context, user UserID, publicKey string) error
	FetchKey(ctx context.Context, user UserID) (string, bool, error)
}

// BlobStore holds opaque encrypted file blobs.
type BlobStore interface {
	Put(ctx context.Context, data []byte) (id string, err error)
	Get(ctx context.Context, id string) ([]byte, bool, error)
}

// Conn is a live client connection capable of receiving pushed events.
// Push is best-effort; an error means the event was not delivered and the
// caller moves on.
type Conn interface {
	Push(ev Event) error
}

// Presence maps a user identity to at most one live connection.
type Presence interface {
	Register(user UserID, conn Conn)
	Unregister(conn Conn)
	Lookup(user UserID) (Conn, bool)
}
