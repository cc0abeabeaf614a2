package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/internal/logging"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/dsl"
	"github.com/aretw0/funnelkit/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock is held when the
// process holding it dies.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager keeps one Editor per funnel document and serialises access to it.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.DocumentStore

	mu      sync.Mutex            // Global lock for the maps
	locks   map[string]*lockEntry // Map of active locks
	editors map[string]*funnelkit.Editor

	locker     ports.DistributedLocker // Optional distributed locker
	lockTTL    time.Duration
	logger     *slog.Logger
	editorOpts []funnelkit.Option
	template   func(id string) domain.Document
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEditorOptions sets the options every opened Editor is created with.
func WithEditorOptions(opts ...funnelkit.Option) Option {
	return func(m *Manager) {
		m.editorOpts = append(m.editorOpts, opts...)
	}
}

// WithTemplate sets the document used when Open is asked for an id the
// store does not know (default: dsl.DefaultFunnelWithID).
func WithTemplate(fn func(id string) domain.Document) Option {
	return func(m *Manager) {
		m.template = fn
	}
}

// NewManager creates a new editor session Manager over store.
func NewManager(store ports.DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		locks:    make(map[string]*lockEntry),
		editors:  make(map[string]*funnelkit.Editor),
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(),
		template: dsl.DefaultFunnelWithID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

func (m *Manager) cached(id string) (*funnelkit.Editor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ed, ok := m.editors[id]
	return ed, ok
}

// openLocked must be called while holding the lock for id.
func (m *Manager) openLocked(ctx context.Context, id string) (*funnelkit.Editor, error) {
	if ed, ok := m.cached(id); ok {
		return ed, nil
	}

	doc, err := m.store.Load(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		doc = m.template(id)
		doc.ID = id
		// Persist immediately to reserve the ID
		if err := m.store.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to initialize funnel %q: %w", id, err)
		}
		m.logger.Info("funnel created from template", "funnel", id)
	default:
		return nil, fmt.Errorf("failed to load funnel %q: %w", id, err)
	}

	ed, err := funnelkit.New(doc, m.editorOpts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.editors[id] = ed
	m.mu.Unlock()
	return ed, nil
}

// Open returns the editor of funnel id, loading it from the store or
// creating it from the template on first use.
func (m *Manager) Open(ctx context.Context, id string) (*funnelkit.Editor, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty funnel id", domain.ErrInvalidOperation)
	}
	var ed *funnelkit.Editor
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		ed, err = m.openLocked(ctx, id)
		return err
	})
	return ed, err
}

// Do runs fn against the editor of funnel id while holding its lock.
// The editor is opened if needed.
func (m *Manager) Do(ctx context.Context, id string, fn func(*funnelkit.Editor) error) error {
	if id == "" {
		return fmt.Errorf("%w: empty funnel id", domain.ErrInvalidOperation)
	}
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		ed, err := m.openLocked(ctx, id)
		if err != nil {
			return err
		}
		return fn(ed)
	})
}

// Save persists the current document of an open editor.
func (m *Manager) Save(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		ed, ok := m.cached(id)
		if !ok {
			return domain.NotFound("save", id)
		}
		return ed.Save(ctx, m.store)
	})
}

// Close forgets the editor of funnel id, discarding unsaved edits and history.
func (m *Manager) Close(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.editors[id]; !ok {
			return domain.NotFound("close", id)
		}
		delete(m.editors, id)
		return nil
	})
}

// Delete closes the editor and removes the funnel from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.editors, id)
		m.mu.Unlock()
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Opened returns the ids of the editors currently held in memory, sorted.
func (m *Manager) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.editors))
	for id := range m.editors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store returns the underlying document store.
func (m *Manager) Store() ports.DocumentStore {
	return m.store
}

// WithLock executes a function while holding the lock for the funnel.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"funnel", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
