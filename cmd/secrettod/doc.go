// Package main runs the secretto chat server daemon.
//
// The daemon serves the key directory, session and file blob HTTP API and
// the websocket event channel, and runs the background sweep that aborts
// expired sessions.
//
// HTTP API
//
//	PUT  /v1/keys/{user}        Publish a user's public key.
//	GET  /v1/keys/{user}        Fetch a user's published public key.
//	POST /v1/sessions           Start a session (optional password, TTL).
//	GET  /v1/sessions           List a participant's sessions.
//	GET  /v1/sessions/{id}      Fetch one session; password-gated chats
//	                            require the X-Session-Password header.
//	POST /v1/files              Store an encrypted blob.
//	GET  /v1/files/{id}         Fetch an encrypted blob.
//	GET  /v1/ws                 Open the websocket event channel.
//	GET  /health                Liveness probe.
//
// Behaviour
//
//   - With no PostgresDSN configured, sessions and keys live in memory and
//     are lost on process exit. With no RedisAddr, blobs live in memory.
//   - The server never sees plaintext or private keys; it stores
//     ciphertext, nonces and public keys only.
package main
