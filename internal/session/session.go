// Package session implements the generation session: the per-build registry
// of configuration fragments, handlers, generated resources and close
// listeners, and its accrete-then-close lifecycle.
//
// A Session is used by a single goroutine. Generators register fragments,
// handlers and listeners while the session is accreting; Close runs the
// handlers (if nobody asked for resources yet), then every listener once, in
// registration order. Listeners may register deferred hooks, which the caller
// runs with RunHooks after writing the generated manifests.
package session

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/resource"
)

// ErrClosed is returned when a closed session is mutated or closed again.
var ErrClosed = errors.New("session: closed")

// Handler consumes merged configuration and appends resources to a group.
type Handler interface {
	// Name identifies the handler. A session keeps one handler per name.
	Name() string
	// Handle resolves the configuration it needs from s and writes into the
	// resource groups it was constructed with.
	Handle(s *Session) error
}

// Listener is notified once when the session closes.
type Listener interface {
	OnClosed(s *Session) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(s *Session) error

// OnClosed calls f(s).
func (f ListenerFunc) OnClosed(s *Session) error {
	return f(s)
}

// Hook is an action deferred past the session's output-writing phase, such
// as an image build.
type Hook interface {
	Name() string
	Run(ctx context.Context) error
}

type state int

const (
	stateAccreting state = iota
	stateClosing
	stateClosed
)

// Session is the per-build generation registry.
type Session struct {
	configurators *registry

	handlers     []Handler
	handlerNames map[string]struct{}

	resources *resource.Groups
	generated bool
	genErr    error

	listeners []Listener
	hooks     []Hook
	hooksRun  bool

	state state
}

// New returns an empty accreting session.
func New() *Session {
	return &Session{
		configurators: newRegistry(),
		handlerNames:  make(map[string]struct{}),
		resources:     resource.NewGroups(),
	}
}

// AddConfigurator registers a configuration fragment. Nothing is merged
// until Resolve is called.
func (s *Session) AddConfigurator(c Configurator) error {
	if s.state != stateAccreting {
		return fmt.Errorf("adding configurator: %w", ErrClosed)
	}
	s.configurators.add(c)
	output.Debug("registered configurator",
		"type", c.ConfigType().String(),
		"origin", c.Origin(),
		"count", s.configurators.count(c.ConfigType()),
	)
	return nil
}

// AddHandler registers a handler. Handlers run when resources are first
// requested, not at registration. A second handler with an already
// registered name is ignored.
func (s *Session) AddHandler(h Handler) error {
	if s.state != stateAccreting {
		return fmt.Errorf("adding handler %q: %w", h.Name(), ErrClosed)
	}
	if _, ok := s.handlerNames[h.Name()]; ok {
		output.Debug("handler already registered", "handler", h.Name())
		return nil
	}
	s.handlerNames[h.Name()] = struct{}{}
	s.handlers = append(s.handlers, h)
	output.Debug("registered handler", "handler", h.Name())
	return nil
}

// AddListener registers a close listener. Registering the same listener
// value twice is a no-op; distinct listeners each fire once.
func (s *Session) AddListener(l Listener) error {
	if s.state != stateAccreting {
		return fmt.Errorf("adding listener: %w", ErrClosed)
	}
	if l == nil {
		return errors.New("session: nil listener")
	}
	if isComparable(l) {
		for _, existing := range s.listeners {
			if isComparable(existing) && existing == l {
				return nil
			}
		}
	}
	s.listeners = append(s.listeners, l)
	output.Debug("registered listener", "listener", fmt.Sprintf("%T", l), "count", len(s.listeners))
	return nil
}

func isComparable(l Listener) bool {
	return reflect.TypeOf(l).Comparable()
}

// Resolve merges every fragment registered for C into one value: marker
// fragments in registration order, then property fragments in registration
// order, each applying its builder and adapter chain to one shared value
// that starts at the zero C. ok is false when no fragment was registered.
//
// Resolve is a pure function of the registrations, so repeated calls
// without new registrations return field-equal values.
func Resolve[C any](s *Session) (cfg C, ok bool) {
	t := reflect.TypeFor[C]()
	ordered := s.configurators.ordered(t)
	if len(ordered) == 0 {
		return cfg, false
	}
	for _, c := range ordered {
		c.apply(&cfg)
	}
	return cfg, true
}

// Resources returns the resource groups handlers write into.
func (s *Session) Resources() *resource.Groups {
	return s.resources
}

// Generate runs every handler once, in registration order, and returns the
// populated resource groups. Later calls return the same groups (and the
// same error, if a handler failed).
func (s *Session) Generate() (*resource.Groups, error) {
	if s.generated {
		return s.resources, s.genErr
	}
	s.generated = true

	for _, h := range s.handlers {
		output.Debug("running handler", "handler", h.Name())
		if err := h.Handle(s); err != nil {
			s.genErr = fmt.Errorf("handler %q: %w", h.Name(), err)
			return s.resources, s.genErr
		}
	}
	output.Debug("generated resources", "groups", len(s.resources.Names()), "resources", s.resources.Len())
	return s.resources, nil
}

// Close generates resources if that has not happened yet, then runs every
// listener in registration order. The first listener error aborts the
// remaining listeners and is returned; effects of listeners that already
// ran are kept. Close may only be called once.
func (s *Session) Close() error {
	if s.state != stateAccreting {
		return ErrClosed
	}
	s.state = stateClosing
	defer func() { s.state = stateClosed }()

	if _, err := s.Generate(); err != nil {
		return err
	}

	for i, l := range s.listeners {
		output.Debug("notifying listener", "listener", fmt.Sprintf("%T", l), "index", i)
		if err := l.OnClosed(s); err != nil {
			return fmt.Errorf("session listener %T: %w", l, err)
		}
	}
	return nil
}

// Closed reports whether Close has completed.
func (s *Session) Closed() bool {
	return s.state == stateClosed
}

// RegisterHook defers h until RunHooks. Listeners call it while the session
// is closing.
func (s *Session) RegisterHook(h Hook) error {
	if s.state == stateClosed {
		return fmt.Errorf("registering hook %q: %w", h.Name(), ErrClosed)
	}
	s.hooks = append(s.hooks, h)
	output.Debug("registered deferred hook", "hook", h.Name())
	return nil
}

// Hooks returns the deferred hooks in registration order.
func (s *Session) Hooks() []Hook {
	out := make([]Hook, len(s.hooks))
	copy(out, s.hooks)
	return out
}

// RunHooks runs the deferred hooks in registration order and stops at the
// first failure. It must be called after Close and runs at most once.
func (s *Session) RunHooks(ctx context.Context) error {
	if s.state != stateClosed {
		return errors.New("session: hooks run before close")
	}
	if s.hooksRun {
		return nil
	}
	s.hooksRun = true

	for _, h := range s.hooks {
		output.Debug("running hook", "hook", h.Name())
		if err := h.Run(ctx); err != nil {
			return fmt.Errorf("hook %q: %w", h.Name(), err)
		}
	}
	return nil
}
