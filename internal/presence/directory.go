package presence

import (
	"sync"

	"secretto/internal/domain"
)

// Directory is a mutex-guarded identity → connection map.
type Directory struct {
	mu    sync.RWMutex
	conns map[domain.UserID]domain.Conn
}

// New returns an empty directory.
func New() *Directory {
	return &Directory{conns: make(map[domain.UserID]domain.Conn)}
}

// Register binds user to conn, replacing any previous mapping for that
// identity.
func (d *Directory) Register(user domain.UserID, conn domain.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[user] = conn
}

// Unregister removes whichever identity currently maps to conn, if any.
// The reverse index is not primary, so this scans by value; a conn that was
// already replaced by a reconnect is left alone.
func (d *Directory) Unregister(conn domain.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for user, c := range d.conns {
		if c == conn {
			delete(d.conns, user)
			return
		}
	}
}

// Lookup returns the live connection for user, if one is registered.
// Absence means "deliver nothing"; it never fails the write path.
func (d *Directory) Lookup(user domain.UserID) (domain.Conn, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.conns[user]
	return c, ok
}

// Compile-time assertion that Directory implements domain.Presence.
var _ domain.Presence = (*Directory)(nil)
