// Package crypto exposes the primitives shared by the vault and the codec:
// Curve25519 keypair generation, base64 transport encoding, nonce and salt
// generation, public-key fingerprints, and best-effort memory wiping.
package crypto
