// Package event provides the synchronous publish/subscribe bus that decouples
// gameplay from presentation and audio.
package event

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Handler receives a published payload. A returned error is logged by the bus
// and does not stop delivery to later handlers.
type Handler func(p Payload) error

// Subscription identifies one registered handler.
type Subscription struct {
	kind Kind
	id   uint64
}

type subscriber struct {
	id uint64
	fn Handler
}

// Bus delivers events synchronously, in subscriber registration order, on the
// publishing goroutine.
//
// Not safe for concurrent use: the bus belongs to the goroutine running the
// frame loop. Handlers may publish, subscribe and unsubscribe re-entrantly.
type Bus struct {
	subs   map[Kind][]subscriber
	nextID uint64
	log    *log.Logger
}

// NewBus creates an empty bus. A nil logger uses log.Default().
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	return &Bus{
		subs: make(map[Kind][]subscriber),
		log:  logger,
	}
}

// Subscribe registers fn for kind and returns its subscription.
func (b *Bus) Subscribe(kind Kind, fn Handler) Subscription {
	b.nextID++
	sub := Subscription{kind: kind, id: b.nextID}
	b.subs[kind] = append(b.subs[kind], subscriber{id: sub.id, fn: fn})
	return sub
}

// On registers a typed handler; the kind is taken from the payload type, so a
// handler can only ever be bound to the kind its payload belongs to.
func On[P Payload](b *Bus, fn func(P)) Subscription {
	var zero P
	return b.Subscribe(zero.Kind(), func(p Payload) error {
		fn(p.(P))
		return nil
	})
}

// Unsubscribe removes a subscription. Unknown or already removed
// subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	list := b.subs[sub.kind]
	// Build a new slice so an in-flight Publish keeps iterating its own copy.
	kept := make([]subscriber, 0, len(list))
	for _, s := range list {
		if s.id != sub.id {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.subs, sub.kind)
		return
	}
	b.subs[sub.kind] = kept
}

// Publish delivers p to every handler subscribed to its kind. Unknown kinds
// with no subscribers are a no-op.
func (b *Bus) Publish(p Payload) {
	for _, s := range b.subs[p.Kind()] {
		if err := b.deliver(s, p); err != nil {
			b.log.Error("event handler failed", "kind", p.Kind(), "err", err)
		}
	}
}

// deliver calls one handler, converting a panic into an error.
func (b *Bus) deliver(s subscriber, p Payload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.fn(p)
}

// RemoveAll drops every subscription.
func (b *Bus) RemoveAll() {
	clear(b.subs)
}

// HandlerCount returns the number of handlers registered for kind.
func (b *Bus) HandlerCount(kind Kind) int {
	return len(b.subs[kind])
}
