package domain

import "errors"

var (
	// ErrInvalidSecretOrCorruptData is returned by vault unlock on any
	// decryption failure. A wrong secret and a corrupted wrap are
	// deliberately indistinguishable.
	ErrInvalidSecretOrCorruptData = errors.New("invalid secret or corrupt key data")

	// ErrInvalidKey indicates malformed key material (wrong length, bad
	// encoding, or an all-zero key).
	ErrInvalidKey = errors.New("invalid key material")

	// ErrAuthenticationFailed covers tampering, a wrong counterpart key,
	// or a wrong nonce. Callers cannot and must not distinguish these.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrSessionNotFound is returned by stores for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUserNotFound is returned by the key directory for an unknown user.
	ErrUserNotFound = errors.New("user not found")
)
