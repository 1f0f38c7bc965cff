package events

import (
	"context"

	"idm_backend/internal/logger"
)

// Listener reacts to a dispatched event. Listener failures are logged
// and never fail the operation that produced the event.
type Listener interface {
	Handle(ctx context.Context, ev Event) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, ev Event) error

func (f ListenerFunc) Handle(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Dispatcher invokes registered listeners synchronously, in
// registration order, in the request that produced the events.
type Dispatcher struct {
	listeners []Listener
}

func NewDispatcher(listeners ...Listener) *Dispatcher {
	return &Dispatcher{listeners: listeners}
}

func (d *Dispatcher) Register(l Listener) {
	d.listeners = append(d.listeners, l)
}

// Dispatch fans the events out to every listener.
func (d *Dispatcher) Dispatch(ctx context.Context, evs ...Event) {
	for _, ev := range evs {
		for _, l := range d.listeners {
			if err := l.Handle(ctx, ev); err != nil {
				logger.CtxWithError(ctx, "event listener failed", err, "event", ev.Name())
			}
		}
	}
}
