// Package gateway is the client side of the chat service: a JSON-over-HTTP
// client for the key directory, sessions and file blobs, and a websocket
// stream carrying the realtime events.
//
// All requests accept a context for cancellation and deadlines. Non-2xx
// statuses are returned as errors carrying the method, path and status
// text to aid diagnostics.
package gateway
