package entity

import (
	"slices"
	"sync"
)

// Observer is called after every successful mutation. It receives no payload;
// observers re-read the store through Snapshot or Derive.
type Observer func()

// Bus delivers change notifications to observers in registration order.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

type subscription struct {
	id       uint64
	observer Observer
}

// Subscribe registers observer and returns a function that unregisters it.
// The returned function is safe to call more than once.
func (b *Bus) Subscribe(observer Observer) (unsubscribe func()) {
	if observer == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, observer: observer})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = slices.DeleteFunc(b.subs, func(sub subscription) bool {
		return sub.id == id
	})
}

// Notify calls every observer registered when Notify started. Observers that
// unsubscribe during the round do not change who is called in that round.
func (b *Bus) Notify() {
	b.mu.Lock()
	round := slices.Clone(b.subs)
	b.mu.Unlock()

	for _, sub := range round {
		sub.observer()
	}
}

// Len returns the number of registered observers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Clear unregisters every observer.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}
