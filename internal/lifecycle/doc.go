// Package lifecycle enforces session expiry.
//
// A single background worker sweeps the session store on a fixed interval:
// every session whose expiry has passed gets a best-effort chat_aborted
// push to its live participants and is then deleted. A failure on one
// session never blocks the rest of the sweep, and deleting an
// already-deleted session is a no-op, so overlapping sweeps are harmless.
// The design assumes one manager instance; running several merely risks
// duplicate notifications.
package lifecycle
