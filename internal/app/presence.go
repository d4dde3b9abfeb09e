package app

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/akarpov/ringmesh/internal/core"
	"github.com/akarpov/ringmesh/internal/domain"
)

type presenceEntry struct {
	Conn        core.SignalConnection
	ConnectedAt time.Time
}

// Presence maps a user identity to its single live connection.
// A newer connection for the same identity silently supersedes the older
// one (last-registered wins). The map is the only shared mutable state in
// the coordinator, so critical sections stay short and do no I/O.
type Presence struct {
	mu      sync.RWMutex
	entries map[domain.UserID]*presenceEntry
}

func NewPresence() *Presence {
	return &Presence{
		entries: make(map[domain.UserID]*presenceEntry),
	}
}

// Register inserts or replaces the mapping for id. It always succeeds.
func (p *Presence) Register(id domain.UserID, conn core.SignalConnection) {
	p.mu.Lock()
	p.entries[id] = &presenceEntry{Conn: conn, ConnectedAt: time.Now()}
	p.mu.Unlock()
	log.Info().Str("module", "app.presence").Str("user", string(id)).Msg("registered")
}

// Unregister removes the mapping for id only when conn is still the
// currently-registered connection. Handle equality, not identity equality:
// a disconnect of an already-superseded connection must not evict the
// newer registration.
func (p *Presence) Unregister(id domain.UserID, conn core.SignalConnection) bool {
	p.mu.Lock()
	e, ok := p.entries[id]
	if !ok || e.Conn != conn {
		p.mu.Unlock()
		return false
	}
	delete(p.entries, id)
	p.mu.Unlock()
	log.Info().Str("module", "app.presence").Str("user", string(id)).Msg("unregistered")
	return true
}

// Lookup returns the live connection for id, if any.
func (p *Presence) Lookup(id domain.UserID) (core.SignalConnection, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.entries[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

// Snapshot returns all currently-registered identities, sorted.
func (p *Presence) Snapshot() []domain.UserID {
	p.mu.RLock()
	out := make([]domain.UserID, 0, len(p.entries))
	for id := range p.entries {
		out = append(out, id)
	}
	p.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type presenceSnap struct {
	ID   domain.UserID
	Conn core.SignalConnection
}

// connections returns every registered (identity, connection) pair for
// fan-out. Sends happen outside the lock.
func (p *Presence) connections() []presenceSnap {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]presenceSnap, 0, len(p.entries))
	for id, e := range p.entries {
		out = append(out, presenceSnap{ID: id, Conn: e.Conn})
	}
	return out
}
