/*
Package notify fans order and product notifications out to observers.

Delivery is synchronous and follows attachment order. Each Notify works on a
snapshot of the observer list, so Attach and Detach from other goroutines
(or from inside an observer) only affect later calls. A failing or panicking
observer does not stop delivery to the rest; its error is logged and joined
into the value Notify returns.
*/
package notify

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Observer receives notifications
type Observer interface {
	Name() string
	Update(ctx context.Context, event Event) error
}

// FuncObserver adapts a function to Observer
type FuncObserver struct {
	name string
	fn   func(ctx context.Context, event Event) error
}

func NewFuncObserver(name string, fn func(ctx context.Context, event Event) error) *FuncObserver {
	return &FuncObserver{name: name, fn: fn}
}

func (o *FuncObserver) Name() string { return o.name }

func (o *FuncObserver) Update(ctx context.Context, event Event) error {
	return o.fn(ctx, event)
}

// Notifier owns its observer registry
type Notifier struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *zap.Logger
}

func NewNotifier(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{logger: logger}
}

// Attach appends observer to the delivery list. Attaching the same instance
// twice delivers to it twice.
func (n *Notifier) Attach(observer Observer) {
	if observer == nil {
		n.logger.Warn("Ignoring nil observer")
		return
	}

	n.mu.Lock()
	n.observers = append(n.observers, observer)
	count := len(n.observers)
	n.mu.Unlock()

	n.logger.Info("Observer attached.", zap.String("observer", observer.Name()), zap.Int("observers", count))
}

// Detach removes the first attachment of this exact instance.
// Returns false when it was not attached.
func (n *Notifier) Detach(observer Observer) bool {
	if observer == nil {
		return false
	}

	n.mu.Lock()
	removed := false
	for i, o := range n.observers {
		if sameObserver(o, observer) {
			next := make([]Observer, 0, len(n.observers)-1)
			next = append(next, n.observers[:i]...)
			n.observers = append(next, n.observers[i+1:]...)
			removed = true
			break
		}
	}
	count := len(n.observers)
	n.mu.Unlock()

	if removed {
		n.logger.Info("Observer detached.", zap.String("observer", observer.Name()), zap.Int("observers", count))
	}
	return removed
}

// Observers returns the current attachment list
func (n *Notifier) Observers() []Observer {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]Observer, len(n.observers))
	copy(out, n.observers)
	return out
}

// Notify delivers event to every observer attached at call time
func (n *Notifier) Notify(ctx context.Context, event Event) error {
	snapshot := n.Observers()

	var errs []error
	delivered := 0
	for _, o := range snapshot {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("notification %s interrupted: %w", event.Name, err))
			break
		}
		if err := n.deliver(ctx, o, event); err != nil {
			n.logger.Error("Observer failed",
				zap.String("observer", o.Name()),
				zap.String("event", event.Name),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		delivered++
	}

	n.logger.Info("Notification sent: "+event.Message,
		zap.String("event", event.Name),
		zap.String("aggregate_id", event.AggregateID),
		zap.Int("observers", len(snapshot)),
		zap.Int("delivered", delivered),
	)

	return errors.Join(errs...)
}

func (n *Notifier) deliver(ctx context.Context, o Observer, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer %s panicked: %v", o.Name(), r)
		}
	}()

	if err := o.Update(ctx, event); err != nil {
		return fmt.Errorf("observer %s: %w", o.Name(), err)
	}
	return nil
}

func sameObserver(a, b Observer) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
