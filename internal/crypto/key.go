package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/nacl/box"

	"secretto/internal/domain"
)

const (
	// KeyBytes is the size of Curve25519 keys and of derived wrap keys.
	KeyBytes = 32
	// SaltBytes is the KDF salt size.
	SaltBytes = 16
	// BoxNonceBytes is the nonce size for box and secretbox operations.
	BoxNonceBytes = 24
)

// GenerateKeyPair returns a fresh Curve25519 keypair suitable for
// pair-authenticated encryption.
func GenerateKeyPair() (domain.PublicKey, domain.PrivateKey, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return domain.PublicKey{}, domain.PrivateKey{}, err
	}
	return domain.PublicKey(*pub), domain.PrivateKey(*priv), nil
}

// NewNonce returns a fresh random box nonce.
func NewNonce() ([BoxNonceBytes]byte, error) {
	var n [BoxNonceBytes]byte
	if _, err := rand.Read(n[:]); err != nil {
		return n, err
	}
	return n, nil
}

// NewSalt returns a fresh random KDF salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Fingerprint returns a SHA-256 hex digest of the public key.
func Fingerprint(pub domain.PublicKey) string {
	sum := sha256.Sum256(pub.Slice())
	return hex.EncodeToString(sum[:])
}

// ParsePublicKey decodes a base64 public key, rejecting malformed material.
func ParsePublicKey(s string) (domain.PublicKey, error) {
	var pub domain.PublicKey
	b, err := FromB64(s)
	if err != nil || len(b) != KeyBytes {
		return pub, fmt.Errorf("public key: %w", domain.ErrInvalidKey)
	}
	copy(pub[:], b)
	return pub, nil
}

// ParsePrivateKey decodes a base64 private key, rejecting malformed material.
func ParsePrivateKey(s string) (domain.PrivateKey, error) {
	var priv domain.PrivateKey
	b, err := FromB64(s)
	if err != nil || len(b) != KeyBytes {
		return priv, fmt.Errorf("private key: %w", domain.ErrInvalidKey)
	}
	copy(priv[:], b)
	Wipe(b)
	return priv, nil
}
