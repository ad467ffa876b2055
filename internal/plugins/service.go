package plugins

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/afero"

	"github.com/andrei-cloud/plugload/internal/cache"
	"github.com/andrei-cloud/plugload/internal/config"
	"github.com/andrei-cloud/plugload/internal/i18n"
	"github.com/andrei-cloud/plugload/internal/metrics"
)

// Service runs a Loader at most once and hands out its State.
type Service struct {
	loader  *Loader
	once    sync.Once
	state   *State
	err     error
	closers []func(context.Context) error
}

// NewService wraps loader.
func NewService(loader *Loader) *Service {
	return &Service{loader: loader}
}

// NewServiceFromConfig builds a service on the OS filesystem with the cache
// backend selected by cfg and a WebAssembly activator.
func NewServiceFromConfig(ctx context.Context, cfg *config.Config) (*Service, error) {
	fs := afero.NewOsFs()

	store, err := cache.New(ctx, cfg.Cache, fs)
	if err != nil {
		return nil, err
	}

	activator, err := NewWasmActivator(ctx, fs)
	if err != nil {
		_ = store.Close()

		return nil, err
	}

	svc := NewService(NewLoader(Options{
		Root:      cfg.Plugins.Path,
		EntryExt:  cfg.Plugins.EntryExt,
		FS:        fs,
		Cache:     store,
		Activator: activator,
		Metrics:   metrics.New(),
	}))
	svc.closers = append(svc.closers,
		activator.Close,
		func(context.Context) error { return store.Close() },
	)

	return svc, nil
}

// Instance initializes the plugins on first use. Concurrent and later calls
// get the same State and error.
func (s *Service) Instance(ctx context.Context) (*State, error) {
	s.once.Do(func() {
		s.state, s.err = s.loader.Initialize(ctx)
	})

	return s.state, s.err
}

// Loader returns the wrapped loader.
func (s *Service) Loader() *Loader {
	return s.loader
}

// Close releases the resources acquired by NewServiceFromConfig.
func (s *Service) Close(ctx context.Context) error {
	var errs []error
	for _, c := range s.closers {
		if err := c(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil

	return errors.Join(errs...)
}

// Locales returns the supported locale table.
func Locales() []i18n.Locale {
	return i18n.Locales()
}
