package domain

import "time"

// UserID is an opaque user identifier.
type UserID string

func (u UserID) String() string { return string(u) }

// PublicKey is a Curve25519 public key.
type PublicKey [32]byte

func (p PublicKey) Slice() []byte { return p[:] }

// PrivateKey is a Curve25519 private key. It lives in memory only; the
// persisted form is WrappedKeyBundle.
type PrivateKey [32]byte

func (k PrivateKey) Slice() []byte { return k[:] }

// KeyBundle holds an unlocked keypair. Never serialize this type.
type KeyBundle struct {
	Public  PublicKey
	Private PrivateKey
}

// WrappedKeyBundle is the at-rest form of a keypair: the private key is
// encrypted under a key derived from the user's secret. All fields are
// base64 text except PublicKey, which is published as-is.
type WrappedKeyBundle struct {
	PublicKey         string `json:"public_key"`
	WrappedPrivateKey string `json:"wrapped_private_key"`
	WrapNonce         string `json:"wrap_nonce"`
	KDFSalt           string `json:"kdf_salt"`
}

// ContentKind discriminates the message content variant.
type ContentKind string

const (
	TextContent ContentKind = "text"
	FileContent ContentKind = "file"
)

// Content is the tagged payload of a message: either boxed text or a file
// envelope referencing an encrypted blob.
type Content struct {
	Kind ContentKind   `json:"kind"`
	Body string        `json:"body,omitempty"` // base64 ciphertext for text
	File *FileEnvelope `json:"file,omitempty"`
}

// FileEnvelope references an encrypted blob and carries the one-time file
// key, itself boxed to the counterpart under KeyNonce.
type FileEnvelope struct {
	FileName   string `json:"file_name"`
	FileID     string `json:"file_id"`
	WrappedKey string `json:"wrapped_key"`
	KeyNonce   string `json:"key_nonce"`
}

// Message is one immutable transcript entry. Timestamp is assigned by the
// router on arrival; Nonce is the box nonce for text content.
type Message struct {
	ID        string    `json:"id"`
	Sender    UserID    `json:"sender"`
	Content   Content   `json:"content"`
	Nonce     string    `json:"nonce,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a two-party chat with an append-only transcript and an
// optional expiry.
type Session struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Participants [2]UserID  `json:"participants"`
	PasswordHash string     `json:"-"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Messages     []Message  `json:"messages"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasParticipant reports whether user is one of the two participants.
func (s *Session) HasParticipant(user UserID) bool {
	return s.Participants[0] == user || s.Participants[1] == user
}

// Counterpart returns the other participant. Participants are
// order-insensitive, so this is the canonical way to address the peer.
func (s *Session) Counterpart(user UserID) UserID {
	if s.Participants[0] == user {
		return s.Participants[1]
	}
	return s.Participants[0]
}

// Expired reports whether the session has an expiry in the past.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}
