// Package cli holds the building blocks shared by the funnelkit commands:
// logger and store construction from config, and op scripts.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/internal/config"
	"github.com/aretw0/funnelkit/internal/logging"
	"github.com/aretw0/funnelkit/pkg/adapters/file"
	"github.com/aretw0/funnelkit/pkg/adapters/memory"
	"github.com/aretw0/funnelkit/pkg/adapters/redis"
	"github.com/aretw0/funnelkit/pkg/persistence/middleware"
	"github.com/aretw0/funnelkit/pkg/ports"
	"github.com/aretw0/funnelkit/pkg/registry"
	"github.com/aretw0/funnelkit/pkg/session"
)

// NewLogger builds the process logger from the log settings. Output goes
// to stderr so that stdout stays clean for command output and MCP stdio.
func NewLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(os.Stderr, level, cfg.Format), nil
}

// Backend is the document store selected by config, wrapped in the
// configured middlewares.
type Backend struct {
	// Store is the wrapped store every command should use.
	Store ports.DocumentStore
	// Raw is the driver store without middlewares.
	Raw ports.DocumentStore
	// Locker is set for drivers shared between processes.
	Locker ports.DistributedLocker

	closeFn func() error
}

// Close releases driver connections.
func (b *Backend) Close() error {
	if b.closeFn == nil {
		return nil
	}
	return b.closeFn()
}

// OpenBackend creates the store for cfg. Documents are validated on every
// save and load; redaction and encryption are added when configured.
func OpenBackend(cfg config.StoreConfig, kinds *registry.Registry) (*Backend, error) {
	b := &Backend{}
	switch cfg.Driver {
	case config.DriverMemory:
		b.Raw = memory.NewStore()
	case config.DriverFile:
		b.Raw = file.New(cfg.Path, file.WithFormat(file.Format(cfg.Format)))
	case config.DriverRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		b.Raw = store
		b.Locker = redis.NewLocker(store.Client(), cfg.Redis.Prefix)
		b.closeFn = store.Client().Close
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	mws := []middleware.Middleware{middleware.NewValidationMiddleware(kinds)}
	if len(cfg.Redact) > 0 {
		redact, err := middleware.NewRedactMiddleware(cfg.Redact)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("store.redact: %w", err)
		}
		mws = append(mws, redact)
	}
	if cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("store.encryption_key: %w", err)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	b.Store = middleware.Chain(b.Raw, mws...)
	return b, nil
}

// EditorOptions returns the editor options implied by cfg.
func EditorOptions(cfg config.Config, logger *slog.Logger, kinds *registry.Registry) []funnelkit.Option {
	return []funnelkit.Option{
		funnelkit.WithLogger(logger),
		funnelkit.WithHistoryLimit(cfg.HistoryLimit),
		funnelkit.WithRegistry(kinds),
	}
}

// NewSessions builds a session manager over the backend.
func NewSessions(cfg config.Config, b *Backend, logger *slog.Logger, kinds *registry.Registry, extra ...funnelkit.Option) *session.Manager {
	editorOpts := append(EditorOptions(cfg, logger, kinds), extra...)
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.HTTP.LockTTL),
		session.WithEditorOptions(editorOpts...),
	}
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker))
	}
	return session.NewManager(b.Store, opts...)
}
