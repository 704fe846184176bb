// Package memstore is an in-memory implementation of the session store,
// key directory, and blob store. It backs tests and single-process
// deployments without external dependencies.
//
// One lock serializes session mutation, so append and delete are atomic
// with respect to each other; deleted session ids are tombstoned so an
// in-flight append can never resurrect a deleted session.
package memstore
