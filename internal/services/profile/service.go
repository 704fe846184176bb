// Package profile manages the local keypair lifecycle: initial setup
// (generate, wrap, store, publish) and unlocking on later runs.
package profile

import (
	"context"
	"errors"
	"fmt"

	"secretto/internal/crypto"
	"secretto/internal/domain"
	"secretto/internal/store/keyfile"
	"secretto/internal/vault"
)

// Publisher uploads a public key to the identity directory.
type Publisher interface {
	PublishKey(ctx context.Context, user domain.UserID, publicKey string) error
}

// ErrNoProfile is returned when no wrapped key bundle exists yet.
var ErrNoProfile = errors.New("no profile; run init first")

// Service wires the vault to the local bundle store and the directory.
type Service struct {
	keys  *keyfile.Store
	vault *vault.Vault
	dir   Publisher
}

// New constructs a profile service. dir may be nil for offline operation.
func New(keys *keyfile.Store, v *vault.Vault, dir Publisher) *Service {
	return &Service{keys: keys, vault: v, dir: dir}
}

// Setup generates a fresh keypair, wraps it under secret, persists the
// wrapped bundle, publishes the public key, and leaves the vault unlocked.
// It refuses to overwrite an existing profile.
func (s *Service) Setup(ctx context.Context, user domain.UserID, secret string) (fingerprint string, err error) {
	if _, ok, err := s.keys.Load(); err != nil {
		return "", err
	} else if ok {
		return "", errors.New("profile already exists")
	}

	kb, err := vault.Generate()
	if err != nil {
		return "", err
	}
	wrapped, nonce, salt, err := vault.Wrap(kb.Private, secret)
	if err != nil {
		return "", err
	}
	crypto.Wipe(kb.Private[:])

	bundle := domain.WrappedKeyBundle{
		PublicKey:         crypto.B64(kb.Public.Slice()),
		WrappedPrivateKey: crypto.B64(wrapped),
		WrapNonce:         crypto.B64(nonce),
		KDFSalt:           crypto.B64(salt),
	}
	if err := s.keys.Save(bundle); err != nil {
		return "", err
	}
	if s.dir != nil {
		if err := s.dir.PublishKey(ctx, user, bundle.PublicKey); err != nil {
			return "", fmt.Errorf("publish key: %w", err)
		}
	}
	if err := s.vault.Unlock(bundle, secret); err != nil {
		return "", err
	}
	return crypto.Fingerprint(kb.Public), nil
}

// Unlock loads the wrapped bundle and unlocks the vault.
func (s *Service) Unlock(secret string) error {
	bundle, ok, err := s.keys.Load()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoProfile
	}
	return s.vault.Unlock(bundle, secret)
}

// Publish re-uploads the stored public key, e.g. after pointing the CLI at
// a new server.
func (s *Service) Publish(ctx context.Context, user domain.UserID) error {
	if s.dir == nil {
		return errors.New("no server configured")
	}
	bundle, ok, err := s.keys.Load()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoProfile
	}
	return s.dir.PublishKey(ctx, user, bundle.PublicKey)
}

// Fingerprint returns the fingerprint of the stored public key.
func (s *Service) Fingerprint() (string, error) {
	bundle, ok, err := s.keys.Load()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoProfile
	}
	pub, err := crypto.ParsePublicKey(bundle.PublicKey)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(pub), nil
}
