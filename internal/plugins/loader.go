// Package plugins discovers plugin directories, merges and caches their
// configuration, loads translations and activates enabled plugins.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/andrei-cloud/plugload/internal/cache"
	"github.com/andrei-cloud/plugload/internal/errorcodes"
	"github.com/andrei-cloud/plugload/internal/event"
	"github.com/andrei-cloud/plugload/internal/fsutil"
	"github.com/andrei-cloud/plugload/internal/i18n"
	"github.com/andrei-cloud/plugload/internal/logging"
	"github.com/andrei-cloud/plugload/internal/metrics"
	"github.com/andrei-cloud/plugload/internal/registry"
	"github.com/andrei-cloud/plugload/internal/yamldoc"
)

// Defaults applied by NewLoader.
const (
	DefaultRoot     = "plugins"
	DefaultEntryExt = ".wasm"
)

// Options configures a Loader. Zero values get working defaults.
type Options struct {
	Root       string
	EntryExt   string
	FS         afero.Fs
	Cache      cache.Store
	Registry   *registry.Registry
	Dictionary *i18n.Dictionary
	Events     *event.Dispatcher
	Activator  Activator
	Metrics    *metrics.Metrics
}

// State is the outcome of one initialization run.
type State struct {
	RunID       string
	Fingerprint Fingerprint
	CacheHit    bool
	Discovered  []string
	Activated   []string
	EventFired  bool
	Plugins     map[string]registry.Config
	Duration    time.Duration
}

// Loader runs the plugin initialization pipeline.
type Loader struct {
	root      string
	entryExt  string
	fs        *fsutil.FS
	cache     cache.Store
	registry  *registry.Registry
	dict      *i18n.Dictionary
	events    *event.Dispatcher
	activator Activator
	metrics   *metrics.Metrics
}

// NewLoader returns a Loader ready to run. Without an explicit cache it uses
// an in-memory store; without an activator enabled plugins are recorded but
// nothing is executed.
func NewLoader(opts Options) *Loader {
	l := &Loader{
		root:      opts.Root,
		entryExt:  opts.EntryExt,
		fs:        fsutil.New(opts.FS),
		cache:     opts.Cache,
		registry:  opts.Registry,
		dict:      opts.Dictionary,
		events:    opts.Events,
		activator: opts.Activator,
		metrics:   opts.Metrics,
	}
	if l.root == "" {
		l.root = DefaultRoot
	}
	if l.entryExt == "" {
		l.entryExt = DefaultEntryExt
	}
	if l.cache == nil {
		l.cache = cache.NewMemoryStore(0, 0)
	}
	if l.registry == nil {
		l.registry = registry.New()
	}
	if l.dict == nil {
		l.dict = i18n.NewDictionary()
	}
	if l.events == nil {
		l.events = event.NewDispatcher()
	}
	if l.activator == nil {
		l.activator = nopActivator
	}

	return l
}

// Root returns the plugins directory.
func (l *Loader) Root() string { return l.root }

// Registry returns the registry the loader publishes to.
func (l *Loader) Registry() *registry.Registry { return l.registry }

// Dictionary returns the translation dictionary the loader fills.
func (l *Loader) Dictionary() *i18n.Dictionary { return l.dict }

// Events returns the dispatcher used for onPluginsInitialized.
func (l *Loader) Events() *event.Dispatcher { return l.events }

// Cache returns the configuration cache.
func (l *Loader) Cache() cache.Store { return l.cache }

// Metrics returns the metrics sink, which may be nil.
func (l *Loader) Metrics() *metrics.Metrics { return l.metrics }

// Initialize discovers plugins, publishes their merged configuration, loads
// translations, activates enabled plugins and fires onPluginsInitialized.
// An unreadable or empty plugins directory yields an empty registry and no
// event.
func (l *Loader) Initialize(ctx context.Context) (*State, error) {
	start := time.Now()
	state := &State{RunID: uuid.NewString()}

	names, err := l.fs.ListSubdirectories(l.root)
	if err != nil || len(names) == 0 {
		log.Debug().
			Err(err).
			Str("run_id", state.RunID).
			Str("root", l.root).
			Msg("no plugins found")
		l.registry.SetPlugins(map[string]registry.Config{})
		l.metrics.Discovered(0)
		state.Plugins = map[string]registry.Config{}
		state.Duration = time.Since(start)

		return state, nil
	}

	state.Discovered = names
	l.metrics.Discovered(len(names))
	log.Debug().
		Str("event", "plugins_discovered").
		Str("run_id", state.RunID).
		Strs("plugins", names).
		Msg("plugin directories discovered")

	entries := discover(l.fs, l.root, names)

	fp, err := fingerprint(l.fs, l.root, entries)
	if err != nil {
		return nil, fmt.Errorf("fingerprint plugins: %w", err)
	}
	state.Fingerprint = fp

	plugins, hit := l.lookup(ctx, state.RunID, fp)
	if !hit {
		if plugins, err = mergeAll(l.fs, entries); err != nil {
			return nil, fmt.Errorf("merge plugin configuration: %w", err)
		}
		if err := l.cache.Save(ctx, string(fp), plugins); err != nil {
			log.Warn().
				Err(err).
				Str("run_id", state.RunID).
				Str("fingerprint", string(fp)).
				Msg("failed to cache plugin configuration")
		}
	}
	state.CacheHit = hit
	logging.LogCacheLookup(state.RunID, string(fp), hit, len(names))

	l.registry.SetPlugins(plugins)
	state.Plugins = l.registry.Plugins()

	if err := l.loadDictionary(state.RunID, entries); err != nil {
		return nil, err
	}

	activated, err := l.activate(ctx, state.RunID, state.Plugins)
	state.Activated = activated
	if err != nil {
		return nil, err
	}

	state.EventFired = true
	if err := l.events.Dispatch(ctx, event.PluginsInitialized); err != nil {
		return nil, fmt.Errorf("dispatch %s: %w", event.PluginsInitialized, err)
	}

	state.Duration = time.Since(start)
	l.metrics.ObserveInitialize(state.Duration)
	logging.LogInitialized(state.RunID, len(names), len(activated), hit, state.Duration)

	return state, nil
}

// lookup returns the cached configuration for fp. Backend failures are
// logged and reported as a miss.
func (l *Loader) lookup(ctx context.Context, runID string, fp Fingerprint) (map[string]registry.Config, bool) {
	ok, err := l.cache.Contains(ctx, string(fp))
	if err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("cache lookup failed")
	}
	if !ok {
		l.metrics.CacheMiss()

		return nil, false
	}

	plugins, err := l.cache.Fetch(ctx, string(fp))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Warn().Err(err).Str("run_id", runID).Msg("cache fetch failed")
		}
		l.metrics.CacheMiss()

		return nil, false
	}
	l.metrics.CacheHit()

	return plugins, true
}

// loadDictionary adds every plugin's translations, locale by locale.
func (l *Loader) loadDictionary(runID string, entries []Entry) error {
	loaded := 0
	for _, loc := range i18n.Locales() {
		for _, e := range entries {
			path := e.LanguagePath(loc.Code)
			if !l.fs.Exists(path) {
				continue
			}

			doc, err := yamldoc.ParseFile(l.fs.Afero(), path)
			if err != nil {
				return fmt.Errorf("load translations: %w", err)
			}
			l.dict.Add(doc, loc.Code)
			loaded++
		}
	}

	log.Debug().
		Str("event", "dictionary_loaded").
		Str("run_id", runID).
		Int("files", loaded).
		Msg("plugin translations loaded")

	return nil
}

// activate runs the entry point of every enabled plugin. A plugin without an
// entry file is skipped.
func (l *Loader) activate(ctx context.Context, runID string, plugins map[string]registry.Config) ([]string, error) {
	var activated []string
	for _, name := range SelectEnabled(plugins) {
		dir := filepath.Join(l.root, name)
		p := Plugin{
			Name:       name,
			Dir:        dir,
			EntryPoint: filepath.Join(dir, name+l.entryExt),
			Config:     plugins[name],
		}

		if !l.fs.Exists(p.EntryPoint) {
			log.Debug().
				Str("run_id", runID).
				Str("plugin", name).
				Str("entry_point", p.EntryPoint).
				Msg("plugin entry point missing, skipping")

			continue
		}

		if err := l.activator.Activate(ctx, p); err != nil {
			if !errors.Is(err, errorcodes.ErrActivation) {
				err = errorcodes.ErrActivation.Wrap(err)
			}

			return activated, fmt.Errorf("activate plugin %q: %w", name, err)
		}

		activated = append(activated, name)
		l.metrics.Activated()
		logging.LogPluginActivated(runID, name, p.EntryPoint)
	}

	return activated, nil
}
