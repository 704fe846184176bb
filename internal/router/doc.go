// Package router persists inbound ciphertext events and fans them out to
// live participants.
//
// The path is deliberately best-effort: a message addressed to an unknown
// or expired session is dropped (and logged) rather than erroring back to
// the sender, and delivery to each online recipient is attempted at most
// once with no acknowledgment. Offline recipients pick the message up from
// the persisted transcript on their next fetch.
package router
