package lifecycle

import (
	"context"
	"sync"
	"time"

	"gopkg.in/op/go-logging.v1"

	"secretto/internal/domain"
	"secretto/internal/log"
)

// DefaultInterval is the sweep period when none is configured.
const DefaultInterval = 30 * time.Second

// Manager is the timer-driven expiry sweeper.
type Manager struct {
	store    domain.SessionStore
	presence domain.Presence
	interval time.Duration
	log      *logging.Logger

	haltOnce sync.Once
	haltCh   chan struct{}
	wg       sync.WaitGroup
}

// New constructs a Manager. A non-positive interval falls back to
// DefaultInterval.
func New(store domain.SessionStore, pres domain.Presence, interval time.Duration, logBackend *log.Backend) *Manager {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Manager{
		store:    store,
		presence: pres,
		interval: interval,
		log:      logBackend.GetLogger("lifecycle"),
		haltCh:   make(chan struct{}),
	}
}

// Start launches the background sweep worker.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.worker()
}

// Halt stops the worker and waits for the in-flight sweep to finish.
func (m *Manager) Halt() {
	m.haltOnce.Do(func() { close(m.haltCh) })
	m.wg.Wait()
}

func (m *Manager) worker() {
	defer m.wg.Done()
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-m.haltCh:
			return
		case now := <-t.C:
			if err := m.Sweep(context.Background(), now.UTC()); err != nil {
				m.log.Errorf("sweep: %v", err)
			}
		}
	}
}

// Sweep runs one expiry pass: notify live participants of each expired
// session, then delete it. Per-session failures are logged and isolated.
func (m *Manager) Sweep(ctx context.Context, now time.Time) error {
	expired, err := m.store.FindExpired(ctx, now)
	if err != nil {
		return err
	}
	for _, sess := range expired {
		m.abort(ctx, sess)
	}
	return nil
}

func (m *Manager) abort(ctx context.Context, sess domain.Session) {
	ev, err := domain.NewEvent(domain.EventChatAborted, domain.ChatAbortedPayload{
		SessionID: sess.ID,
	})
	if err != nil {
		m.log.Errorf("abort event for %s: %v", sess.ID, err)
		return
	}
	for _, p := range sess.Participants {
		conn, online := m.presence.Lookup(p)
		if !online {
			continue
		}
		if err := conn.Push(ev); err != nil {
			m.log.Warningf("abort push to %s failed: %v", p, err)
		}
	}
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		m.log.Errorf("delete expired session %s: %v", sess.ID, err)
		return
	}
	m.log.Infof("session %s expired and purged", sess.ID)
}
