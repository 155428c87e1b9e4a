package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/armatek/armature/internal/eventbus"
	"github.com/armatek/armature/internal/host"
	"github.com/armatek/armature/internal/kvstore"
	"github.com/armatek/armature/internal/liveconfig"
	"github.com/armatek/armature/internal/runtime"
)

// App encapsulates the host's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	bus     *eventbus.Bus
	configs *liveconfig.Store
	live    *liveconfig.Config
	storage kvstore.Store
	server  *host.Server
	runtime *runtime.Runtime
}

// New constructs a fully wired App. The initial configuration load is the
// only fatal failure here: a host that cannot read its config must not come
// up at all.
func New(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW).
		With("boot_id", uuid.NewString())

	bus := eventbus.New()
	configs := liveconfig.NewStore(logger, liveconfig.WithBus(bus))

	live, err := configs.Load(cfg.ConfigPath)
	if err != nil {
		configs.Close()
		bus.Close()
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Initial configuration loaded.", "path", live.Path())

	storage, err := openStorage(cfg)
	if err != nil {
		configs.Close()
		bus.Close()
		return nil, err
	}

	// The live document may override the listen address without a rebuild.
	listen := live.GetString("server.listen", cfg.ListenAddr)
	server := host.NewServer(logger, listen)

	rt := runtime.New(runtime.Options{
		Logger:          logger,
		Host:            server,
		Storage:         storage,
		Table:           builtinTable(live),
		PlatformVersion: PlatformVersion,
		APILevel:        APILevel,
		InitTimeout:     cfg.InitTimeout,
		Bus:             bus,
		Configs:         configs,
	})

	server.Handle("/admin/modules", host.ModulesHandler(logger, rt))
	server.Handle("/admin/events", host.EventsHandler(logger, bus))

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		bus:     bus,
		configs: configs,
		live:    live,
		storage: storage,
		server:  server,
		runtime: rt,
	}, nil
}

func openStorage(cfg *Config) (kvstore.Store, error) {
	switch cfg.StorageBackend {
	case StorageSQLite:
		store, err := kvstore.OpenSQLite(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return store, nil
	default:
		return kvstore.NewMemory(), nil
	}
}

// Runtime returns the application's module runtime. This is primarily for
// testing.
func (a *App) Runtime() *runtime.Runtime {
	return a.runtime
}

// LiveConfig returns the shared live configuration handle.
func (a *App) LiveConfig() *liveconfig.Config {
	return a.live
}
