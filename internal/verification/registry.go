package verification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type entry struct {
	session *Session
	touched time.Time
}

// Registry owns the live sessions of the process, one per login attempt.
type Registry struct {
	deps Deps
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Registry{
		deps:     deps,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

func (r *Registry) Create() *Session {
	s := NewSession(uuid.NewString(), r.deps)
	r.mu.Lock()
	r.sessions[s.ID()] = &entry{session: s, touched: r.now()}
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.touched = r.now()
	return e.session, true
}

// Discard drops the session. Anything it still has in flight is abandoned.
func (r *Registry) Discard(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		e.session.Reset()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep discards sessions untouched for longer than maxIdle.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	var stale []*Session

	r.mu.Lock()
	for id, e := range r.sessions {
		if e.touched.Before(cutoff) {
			stale = append(stale, e.session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Reset()
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.deps.Logger.Info("abandoned sessions swept", zap.Int("count", n), zap.Int("live", r.Len()))
			}
		}
	}
}
