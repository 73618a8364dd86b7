package listing

import (
	"log/slog"
	"sync"
	"time"
)

// Registry keeps one controller per session for an entity and drops
// controllers that have been idle longer than the configured lifetime.
type Registry[T any, F Criteria, I any] struct {
	cfg    Config[T, F, I]
	logger *slog.Logger
	idle   time.Duration
	now    func() time.Time

	mu        sync.Mutex
	entries   map[string]*registryEntry[T, F, I]
	lastSweep time.Time
}

type registryEntry[T any, F Criteria, I any] struct {
	ctrl *Controller[T, F, I]
	seen time.Time
}

// NewRegistry constructs a Registry.
func NewRegistry[T any, F Criteria, I any](cfg Config[T, F, I], logger *slog.Logger, idle time.Duration) *Registry[T, F, I] {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry[T, F, I]{
		cfg:     cfg,
		logger:  logger,
		idle:    idle,
		now:     time.Now,
		entries: make(map[string]*registryEntry[T, F, I]),
	}
}

// Config returns the entity configuration.
func (r *Registry[T, F, I]) Config() Config[T, F, I] { return r.cfg }

// For returns the controller of sessionID, creating it from resume when the
// session has none yet. created reports whether a new controller was built.
func (r *Registry[T, F, I]) For(sessionID string, resume Persisted[F]) (ctrl *Controller[T, F, I], created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweepLocked(now)
	if entry, ok := r.entries[sessionID]; ok {
		entry.seen = now
		return entry.ctrl, false
	}
	ctrl = NewController(r.cfg, r.logger, resume)
	r.entries[sessionID] = &registryEntry[T, F, I]{ctrl: ctrl, seen: now}
	return ctrl, true
}

// Forget drops the controller of sessionID.
func (r *Registry[T, F, I]) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.entries, sessionID)
	r.mu.Unlock()
}

// Len reports the number of live controllers.
func (r *Registry[T, F, I]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry[T, F, I]) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < r.idle/2 {
		return
	}
	r.lastSweep = now
	for id, entry := range r.entries {
		if now.Sub(entry.seen) > r.idle {
			delete(r.entries, id)
		}
	}
}
