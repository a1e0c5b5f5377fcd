// Package mediator routes typed requests to the single handler registered for
// their kind, and fans notifications out to subscribers.
//
// Handlers are registered once at startup. The server then calls Verify with
// every request it can send so a missing or mistyped handler stops the
// process before it serves traffic.
package mediator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Kind tags a request or notification type.
type Kind string

type Request interface {
	Kind() Kind
}

type Notification interface {
	Kind() Kind
}

// Unit is the response of requests that return nothing.
type Unit struct{}

type HandlerFunc[Req Request, Res any] func(ctx context.Context, req Req) (Res, error)

var (
	ErrNoHandler        = errors.New("mediator: no handler registered")
	ErrDuplicateHandler = errors.New("mediator: handler already registered")
	ErrHandlerType      = errors.New("mediator: handler type mismatch")
)

type subscriber func(ctx context.Context, n Notification) error

type Mediator struct {
	mu          sync.RWMutex
	handlers    map[Kind]any
	subscribers map[Kind][]subscriber
	log         logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Mediator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Mediator{
		handlers:    make(map[Kind]any),
		subscribers: make(map[Kind][]subscriber),
		log:         log,
	}
}

// Register binds h to the kind reported by the zero value of Req.
func Register[Req Request, Res any](m *Mediator, h func(ctx context.Context, req Req) (Res, error)) error {
	var zero Req
	kind := zero.Kind()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, kind)
	}
	m.handlers[kind] = HandlerFunc[Req, Res](h)
	return nil
}

// MustRegister is Register for wiring code that cannot continue on error.
func MustRegister[Req Request, Res any](m *Mediator, h func(ctx context.Context, req Req) (Res, error)) {
	if err := Register(m, h); err != nil {
		panic(err)
	}
}

func lookup[Req Request, Res any](m *Mediator, kind Kind) (HandlerFunc[Req, Res], error) {
	m.mu.RLock()
	raw, ok := m.handlers[kind]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, kind)
	}
	h, ok := raw.(HandlerFunc[Req, Res])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerType, kind)
	}
	return h, nil
}

// Send dispatches req to its handler. Res must be given explicitly:
//
//	cat, err := mediator.Send[*entity.Category](ctx, m, request.GetCategory{ID: 1})
func Send[Res any, Req Request](ctx context.Context, m *Mediator, req Req) (Res, error) {
	h, err := lookup[Req, Res](m, req.Kind())
	if err != nil {
		var zero Res
		return zero, err
	}

	start := time.Now()
	res, err := h(ctx, req)
	m.log.WithFields(logrus.Fields{
		"kind":     req.Kind(),
		"duration": time.Since(start),
		"failed":   err != nil,
	}).Debug("mediator send")

	return res, err
}

// Subscribe adds fn to the subscribers of N's kind.
func Subscribe[N Notification](m *Mediator, fn func(ctx context.Context, n N) error) {
	var zero N
	kind := zero.Kind()

	wrapped := func(ctx context.Context, n Notification) error {
		typed, ok := n.(N)
		if !ok {
			return fmt.Errorf("%w: %s", ErrHandlerType, kind)
		}
		return fn(ctx, typed)
	}

	m.mu.Lock()
	m.subscribers[kind] = append(m.subscribers[kind], wrapped)
	m.mu.Unlock()
}

// Publish calls every subscriber of n's kind in registration order. All
// subscribers run even when one fails; the errors are joined.
func (m *Mediator) Publish(ctx context.Context, n Notification) error {
	m.mu.RLock()
	subs := append([]subscriber(nil), m.subscribers[n.Kind()]...)
	m.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if err := sub(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Expectation checks one handler registration.
type Expectation func(m *Mediator) error

// Expect asserts a handler for Req returning Res is registered.
func Expect[Res any, Req Request]() Expectation {
	return func(m *Mediator) error {
		var zero Req
		_, err := lookup[Req, Res](m, zero.Kind())
		return err
	}
}

// Verify runs every expectation and reports all failures at once.
func (m *Mediator) Verify(exps ...Expectation) error {
	var errs []error
	for _, exp := range exps {
		if err := exp(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Kinds lists the registered request kinds.
func (m *Mediator) Kinds() []Kind {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kinds := make([]Kind, 0, len(m.handlers))
	for k := range m.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}
