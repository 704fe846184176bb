package crypto

import "encoding/base64"

// Binary values cross every process boundary in this encoding. Encode and
// decode must round-trip byte-for-byte.
var encoding = base64.RawURLEncoding

// B64 encodes b as URL-safe base64 without padding.
func B64(b []byte) string { return encoding.EncodeToString(b) }

// FromB64 decodes a B64-encoded string.
func FromB64(s string) ([]byte, error) { return encoding.DecodeString(s) }
