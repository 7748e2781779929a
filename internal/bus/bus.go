// Package bus is the in-process "snapshot changed" signal shared by every
// store instance of one storage origin.
package bus

import "sync"

// Listener is called once per published change. It carries no payload;
// receivers reload whatever they need.
type Listener func()

type entry struct {
	id uint64
	fn Listener
}

type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []entry
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers l. Listeners are called in registration order.
func (b *Bus) Subscribe(l Listener) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs = append(b.subs, entry{id: b.nextID, fn: l})
	return &Subscription{bus: b, id: b.nextID}
}

// Publish delivers the signal synchronously to every current subscriber
// and returns after the last one. Listeners may unsubscribe during delivery.
func (b *Bus) Publish() {
	b.mu.RLock()
	subs := make([]entry, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn()
	}
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

type Subscription struct {
	bus  *Bus
	id   uint64
	once sync.Once
}

// Unsubscribe is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { s.bus.remove(s.id) })
}
