// Package vault protects the local private key at rest.
//
// Wrap derives a key-encryption key from the user secret with Argon2id and
// seals the private key with ChaCha20-Poly1305. Unlock reverses it; any
// failure surfaces as the single opaque domain.ErrInvalidSecretOrCorruptData
// so that a wrong secret and a corrupted wrap are indistinguishable.
//
// The Vault type holds the unlocked private key in memory only. Lock wipes
// it; the plaintext key is never serialized.
package vault
