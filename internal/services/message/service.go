// Package message performs the end-to-end encryption of chat text:
// boxing outgoing messages to the session counterpart and opening
// transcript entries on the way back.
package message

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"secretto/internal/codec"
	"secretto/internal/crypto"
	"secretto/internal/domain"
	"secretto/internal/vault"
)

// Directory resolves published public keys.
type Directory interface {
	FetchKey(ctx context.Context, user domain.UserID) (string, bool, error)
}

// Sender emits a send_message event on some live channel.
type Sender interface {
	SendMessage(sessionID string, sender domain.UserID, content domain.Content, nonce string) error
}

// ErrVaultLocked is returned when the vault has not been unlocked yet.
var ErrVaultLocked = errors.New("vault is locked")

// Service boxes and opens text messages. Resolved public keys are cached
// for the lifetime of the service; keys are static per identity.
type Service struct {
	vault *vault.Vault
	dir   Directory

	mu   sync.Mutex
	keys map[domain.UserID]domain.PublicKey
}

// New constructs a message service over an unlocked (or soon unlocked)
// vault and a key directory.
func New(v *vault.Vault, dir Directory) *Service {
	return &Service{vault: v, dir: dir, keys: make(map[domain.UserID]domain.PublicKey)}
}

// ResolveKey fetches and caches a user's published public key.
func (s *Service) ResolveKey(ctx context.Context, user domain.UserID) (domain.PublicKey, error) {
	s.mu.Lock()
	if pub, ok := s.keys[user]; ok {
		s.mu.Unlock()
		return pub, nil
	}
	s.mu.Unlock()

	raw, ok, err := s.dir.FetchKey(ctx, user)
	if err != nil {
		return domain.PublicKey{}, fmt.Errorf("fetch key for %s: %w", user, err)
	}
	if !ok {
		return domain.PublicKey{}, fmt.Errorf("%s: %w", user, domain.ErrUserNotFound)
	}
	pub, err := crypto.ParsePublicKey(raw)
	if err != nil {
		return domain.PublicKey{}, fmt.Errorf("key for %s: %w", user, err)
	}

	s.mu.Lock()
	s.keys[user] = pub
	s.mu.Unlock()
	return pub, nil
}

// Send boxes plaintext to the session counterpart and emits it on out.
// The plaintext never leaves this function unencrypted.
func (s *Service) Send(ctx context.Context, out Sender, sess domain.Session, me domain.UserID, plaintext string) error {
	_, priv, ok := s.vault.Keys()
	if !ok {
		return ErrVaultLocked
	}
	theirPub, err := s.ResolveKey(ctx, sess.Counterpart(me))
	if err != nil {
		return err
	}
	ct, nonce, err := codec.EncryptText([]byte(plaintext), priv, theirPub)
	if err != nil {
		return err
	}
	content := domain.Content{Kind: domain.TextContent, Body: crypto.B64(ct)}
	return out.SendMessage(sess.ID, me, content, crypto.B64(nonce))
}

// Decrypt opens one text message from the transcript. The counterpart key
// is the recipient's for our own messages and the sender's for everything
// else, so both directions of the conversation open with the same call.
func (s *Service) Decrypt(ctx context.Context, sess *domain.Session, me domain.UserID, msg domain.Message) (string, error) {
	if msg.Content.Kind != domain.TextContent {
		return "", fmt.Errorf("message %s is not text", msg.ID)
	}
	_, priv, ok := s.vault.Keys()
	if !ok {
		return "", ErrVaultLocked
	}

	counterpart := msg.Sender
	if counterpart == me {
		counterpart = sess.Counterpart(me)
	}
	theirPub, err := s.ResolveKey(ctx, counterpart)
	if err != nil {
		return "", err
	}

	ct, err := crypto.FromB64(msg.Content.Body)
	if err != nil {
		return "", domain.ErrAuthenticationFailed
	}
	nonce, err := crypto.FromB64(msg.Nonce)
	if err != nil {
		return "", domain.ErrAuthenticationFailed
	}
	pt, err := codec.DecryptText(ct, nonce, theirPub, priv)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
