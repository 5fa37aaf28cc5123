package core

import "sync"

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id uint64
	fn Handler
}

// Bus is a typed publish/subscribe channel for engine events.
// Dispatch is synchronous and in subscription order. Events published while a
// dispatch is running are queued and delivered, in order, once the current event
// has reached every subscriber.
type Bus struct {
	mu     sync.RWMutex
	byKind [eventKindCount][]subscription
	all    []subscription
	nextID uint64

	qmu         sync.Mutex
	queue       []Event
	dispatching bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for one event kind and returns a function that removes it.
func (b *Bus) Subscribe(kind EventKind, h Handler) (unsubscribe func()) {
	if kind >= eventKindCount || h == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.byKind[kind] = append(b.byKind[kind], subscription{id: id, fn: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.byKind[kind] = removeSub(b.byKind[kind], id)
	}
}

// SubscribeAll registers h for every event kind.
func (b *Bus) SubscribeAll(h Handler) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, fn: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = removeSub(b.all, id)
	}
}

// On subscribes a handler typed on the concrete payload E.
func On[E Event](b *Bus, h func(E)) (unsubscribe func()) {
	var zero E
	return b.Subscribe(zero.Kind(), func(ev Event) {
		if e, ok := ev.(E); ok {
			h(e)
		}
	})
}

// Publish delivers ev to kind subscribers first, then to catch-all subscribers.
// Handlers may subscribe or publish; they see a snapshot of the subscriber list.
func (b *Bus) Publish(ev Event) {
	if b == nil || ev == nil || ev.Kind() >= eventKindCount {
		return
	}

	b.qmu.Lock()
	b.queue = append(b.queue, ev)
	if b.dispatching {
		b.qmu.Unlock()
		return
	}
	b.dispatching = true
	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.qmu.Unlock()
		b.deliver(next)
		b.qmu.Lock()
	}
	b.queue = nil
	b.dispatching = false
	b.qmu.Unlock()
}

func (b *Bus) deliver(ev Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.byKind[ev.Kind()]...)
	subs = append(subs, b.all...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

func removeSub(subs []subscription, id uint64) []subscription {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}

// Recorder collects published events in order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Attach subscribes the recorder to every event on b.
func (r *Recorder) Attach(b *Bus) (unsubscribe func()) {
	return b.SubscribeAll(r.Handle)
}

// Handle appends ev. It satisfies Handler.
func (r *Recorder) Handle(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

// Kinds returns the kinds of recorded events in order.
func (r *Recorder) Kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind()
	}
	return out
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
