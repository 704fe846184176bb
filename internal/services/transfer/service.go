// Package transfer moves encrypted file attachments: seal and upload on
// the way out, download and open on the way back. The blob store only
// ever sees ciphertext; the one-time file key travels boxed inside the
// message envelope.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"secretto/internal/codec"
	"secretto/internal/crypto"
	"secretto/internal/domain"
	"secretto/internal/services/message"
	"secretto/internal/vault"
)

// Blobs stores and retrieves opaque encrypted payloads.
type Blobs interface {
	UploadFile(ctx context.Context, data []byte) (string, error)
	DownloadFile(ctx context.Context, id string) ([]byte, error)
}

// Resolver resolves a user's public key. *message.Service satisfies it.
type Resolver interface {
	ResolveKey(ctx context.Context, user domain.UserID) (domain.PublicKey, error)
}

// Service handles attachment encryption and blob transport.
type Service struct {
	vault *vault.Vault
	keys  Resolver
	blobs Blobs
}

// New constructs a transfer service.
func New(v *vault.Vault, keys Resolver, blobs Blobs) *Service {
	return &Service{vault: v, keys: keys, blobs: blobs}
}

// Send seals data under a one-time key, uploads the ciphertext blob and
// emits a file message carrying the boxed key envelope.
func (s *Service) Send(ctx context.Context, out message.Sender, sess domain.Session, me domain.UserID, fileName string, data []byte) error {
	_, priv, ok := s.vault.Keys()
	if !ok {
		return message.ErrVaultLocked
	}
	theirPub, err := s.keys.ResolveKey(ctx, sess.Counterpart(me))
	if err != nil {
		return err
	}
	fc, err := codec.EncryptFile(data, priv, theirPub)
	if err != nil {
		return err
	}
	id, err := s.blobs.UploadFile(ctx, fc.Encrypted)
	if err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	content := domain.Content{
		Kind: domain.FileContent,
		File: &domain.FileEnvelope{
			FileName:   fileName,
			FileID:     id,
			WrappedKey: crypto.B64(fc.WrappedKey),
			KeyNonce:   crypto.B64(fc.KeyNonce),
		},
	}
	return out.SendMessage(sess.ID, me, content, "")
}

// Fetch downloads and opens the attachment referenced by msg, returning
// the plaintext and the original file name.
func (s *Service) Fetch(ctx context.Context, sess *domain.Session, me domain.UserID, msg domain.Message) ([]byte, string, error) {
	if msg.Content.Kind != domain.FileContent || msg.Content.File == nil {
		return nil, "", errors.New("message carries no file")
	}
	env := msg.Content.File

	_, priv, ok := s.vault.Keys()
	if !ok {
		return nil, "", message.ErrVaultLocked
	}
	counterpart := msg.Sender
	if counterpart == me {
		counterpart = sess.Counterpart(me)
	}
	theirPub, err := s.keys.ResolveKey(ctx, counterpart)
	if err != nil {
		return nil, "", err
	}

	encrypted, err := s.blobs.DownloadFile(ctx, env.FileID)
	if err != nil {
		return nil, "", fmt.Errorf("download blob %s: %w", env.FileID, err)
	}
	wrappedKey, err := crypto.FromB64(env.WrappedKey)
	if err != nil {
		return nil, "", domain.ErrAuthenticationFailed
	}
	keyNonce, err := crypto.FromB64(env.KeyNonce)
	if err != nil {
		return nil, "", domain.ErrAuthenticationFailed
	}
	data, err := codec.DecryptFile(encrypted, wrappedKey, keyNonce, theirPub, priv)
	if err != nil {
		return nil, "", err
	}
	return data, env.FileName, nil
}
