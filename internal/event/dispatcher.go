// Package event provides the process-wide lifecycle event dispatcher.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// PluginsInitialized fires once after plugin initialization completes.
const PluginsInitialized = "onPluginsInitialized"

// Handler reacts to a named event. Events carry no payload.
type Handler func(ctx context.Context) error

type subscription struct {
	id      uint64
	handler Handler
}

// Dispatcher runs handlers synchronously in subscription order.
type Dispatcher struct {
	handlers map[string][]subscription
	counts   map[string]int
	nextID   uint64
	mu       sync.RWMutex
}

// NewDispatcher returns a dispatcher with no subscribers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]subscription),
		counts:   make(map[string]int),
	}
}

// Subscribe registers h for name and returns a function that removes it.
func (d *Dispatcher) Subscribe(name string, h Handler) func() {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.handlers[name] = append(d.handlers[name], subscription{id: id, handler: h})
	d.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()

			subs := d.handlers[name]
			for i, s := range subs {
				if s.id == id {
					d.handlers[name] = append(subs[:i:i], subs[i+1:]...)

					break
				}
			}
		})
	}
}

// Dispatch invokes every handler subscribed to name. All handlers run even
// when one fails; the joined errors are returned. A panicking handler is
// recovered and reported as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, name string) error {
	d.mu.Lock()
	d.counts[name]++
	subs := make([]subscription, len(d.handlers[name]))
	copy(subs, d.handlers[name])
	d.mu.Unlock()

	log.Debug().
		Str("event", "dispatch").
		Str("name", name).
		Int("handlers", len(subs)).
		Msg("dispatching event")

	var errs []error
	for _, s := range subs {
		if err := invoke(ctx, s.handler); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d: %w", name, s.id, err))
		}
	}

	return errors.Join(errs...)
}

// Dispatched returns how many times name has been dispatched.
func (d *Dispatcher) Dispatched(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.counts[name]
}

func invoke(ctx context.Context, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return h(ctx)
}
