// Package server exposes the chat service over HTTP: a REST surface for
// the key directory, session management and encrypted file blobs, and a
// websocket endpoint carrying the realtime event channel.
//
// The service only ever handles ciphertext. Keys are published public
// halves, message bodies arrive boxed, and file blobs are sealed under
// keys the server never sees.
package server
