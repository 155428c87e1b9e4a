package liveconfig

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/armatek/armature/internal/eventbus"
)

// defaultDebounce is the quiet period after the last filesystem event before
// a reload runs. Editors often write and rename a temp file in quick
// succession; coalescing avoids parsing half-written documents.
const defaultDebounce = 500 * time.Millisecond

// Store owns one live Config per distinct path, together with the watcher
// goroutines that keep them fresh. Its lifecycle is explicit: create it at
// boot, Close it at shutdown.
type Store struct {
	logger   *slog.Logger
	debounce time.Duration
	bus      *eventbus.Bus

	mu       sync.Mutex
	configs  map[string]*Config
	watchers []*fsnotify.Watcher
	closed   bool
}

// Option customizes a Store.
type Option func(*Store)

// WithDebounce overrides the reload debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// WithBus makes the store publish a config.reloaded event after each
// successful merge.
func WithBus(bus *eventbus.Bus) Option {
	return func(s *Store) { s.bus = bus }
}

// NewStore creates an empty store.
func NewStore(logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		logger:   logger,
		debounce: defaultDebounce,
		configs:  make(map[string]*Config),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the live Config for path, parsing the file and installing a
// filesystem watcher on first use. Subsequent calls with any spelling of the
// same resolved absolute path return the identical handle with no re-parse
// and no duplicate watcher. A first-load read or parse failure is returned
// to the caller and is expected to fail the whole boot sequence.
func (s *Store) Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("config store is closed")
	}
	if cfg, ok := s.configs[abs]; ok {
		return cfg, nil
	}

	tree, err := parseFile(abs)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(abs, tree)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	// Watch the directory rather than the file itself so atomic
	// write-and-rename saves keep being observed.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching config directory %s: %w", filepath.Dir(abs), err)
	}

	s.configs[abs] = cfg
	s.watchers = append(s.watchers, watcher)
	go s.watch(watcher, cfg)

	s.logger.Debug("Live config loaded and watcher installed.", "path", abs)
	return cfg, nil
}

// watch is the event producer/consumer loop for one path: fsnotify events
// for the file reset a debounce timer, and the timer's expiry triggers the
// reload. The goroutine exits when the watcher is closed.
func (s *Store) watch(watcher *fsnotify.Watcher, cfg *Config) {
	var timer *time.Timer
	relevant := fsnotify.Write | fsnotify.Create | fsnotify.Rename

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				return
			}
			if filepath.Clean(event.Name) != cfg.path || event.Op&relevant == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(s.debounce, func() { s.reload(cfg) })
			} else {
				timer.Reset(s.debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				return
			}
			s.logger.Error("Config watcher error.", "path", cfg.path, "error", err)
		}
	}
}

// reload re-parses the file and merges the result into the live tree. A
// parse failure never touches the in-memory state: a broken file on disk
// must not partially overwrite a good config.
func (s *Store) reload(cfg *Config) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	next, err := parseFile(cfg.path)
	if err != nil {
		s.logger.Error("Config reload failed, keeping previous state.", "path", cfg.path, "error", err)
		return
	}

	cfg.replace(next)
	s.logger.Info("Configuration reloaded.", "path", cfg.path)
	if s.bus != nil {
		s.bus.Publish(eventbus.TopicConfigReloaded, map[string]any{"path": cfg.path})
	}
}

// Close stops every watcher goroutine. Loaded Config handles stay readable
// but no longer refresh.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for _, watcher := range s.watchers {
		if err := watcher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.watchers = nil
	return firstErr
}
