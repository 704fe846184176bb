// Package domain defines the core types and interfaces shared across
// secretto: identities and key material, sessions and their transcripts,
// tagged message content, wire events, and the store and client contracts
// the rest of the system is built against.
//
// The package is intentionally free of I/O. Fixed-size array types are used
// for key material to avoid accidental reallocation; everything that crosses
// a process boundary is carried as base64 text.
package domain
