// Package bootstrap assembles the shared startup pipeline: logger, the
// configured user store (with migrations for postgres), and chart modules.
package bootstrap

import (
	"fmt"
	"time"

	"log/slog"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/botwright/teleflow/core/config"
	coredatabase "github.com/botwright/teleflow/core/database"
	"github.com/botwright/teleflow/core/logger"
	"github.com/botwright/teleflow/flow"
	"github.com/botwright/teleflow/users"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
// DB is only set when the postgres store is selected.
type Result struct {
	DB    *sqlx.DB
	Store flow.Store

	closers []func() error
}

// Close releases store connections in reverse initialization order.
func (r *Result) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Run initializes the logger and builds the user store selected by
// cfg.Engine.Store. Postgres gets connected and migrated; redis and memory
// need no preparation.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	cfg := opts.Config

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.Init
	}
	if err := loggerInit(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	var storeOpts []users.Option
	if cfg.Engine.StartState != "" {
		storeOpts = append(storeOpts, users.WithStartState(cfg.Engine.StartState))
	}

	res := &Result{}
	switch cfg.Engine.Store {
	case coreconfig.StorePostgres:
		connect := opts.Connect
		if connect == nil {
			connect = coredatabase.Connect
		}
		db, err := connect(opts.Database)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
		}
		migrate := opts.Migrate
		if migrate == nil {
			migrate = coredatabase.RunMigrations
		}
		if err := migrate(opts.Database); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}
		res.DB = db
		res.Store = users.NewPostgresStore(db, storeOpts...)
		res.closers = append(res.closers, db.Close)

	case coreconfig.StoreRedis:
		if cfg.Redis.KeyPrefix != "" {
			storeOpts = append(storeOpts, users.WithKeyPrefix(cfg.Redis.KeyPrefix))
		}
		if cfg.Redis.TTLHours > 0 {
			storeOpts = append(storeOpts, users.WithTTL(time.Duration(cfg.Redis.TTLHours)*time.Hour))
		}
		store := users.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, storeOpts...)
		res.Store = store
		res.closers = append(res.closers, store.Close)

	default:
		res.Store = users.NewMemoryStore(storeOpts...)
	}

	logger.Info(logger.Background(), "store", "store.selected",
		slog.String("backend", cfg.Engine.Store),
	)
	return res, nil
}
