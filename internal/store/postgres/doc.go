// Package postgres implements the session store and key directory on
// PostgreSQL via database/sql and lib/pq.
//
// Messages carry a BIGSERIAL sequence so transcript order is the order
// appends commit, independent of client clocks. Appends are guarded on the
// session row existing and not being expired, so an append racing a
// lifecycle delete can never resurrect the session.
package postgres
