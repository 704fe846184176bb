// Package presence maps a user identity to at most one live connection.
//
// The directory is purely in-memory: it is cleared on restart and a
// reconnecting client simply re-registers. Registration is last-wins so a
// reconnect replaces a stale connection.
package presence
