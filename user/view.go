package user

import (
	"sync"

	"github.com/amonks/flowstate/entity"
)

// View holds filter state shared by several consumers of one Store. Users
// is recomputed only when the store version or the filters change.
//
// Observers of a View are notified when its filters change and when the
// underlying store changes.
type View struct {
	store *Store
	bus   entity.Bus

	mu      sync.Mutex
	filters Filters
	cached  bool
	version uint64
	memo    Filters
	users   []User
	err     error

	// derivations counts recomputations of users.
	derivations int

	unsubscribe func()
}

// NewView creates a View over store with default filters.
func NewView(store *Store) *View {
	v := &View{store: store, filters: DefaultFilters()}
	v.unsubscribe = store.Subscribe(v.bus.Notify)
	return v
}

// Filters returns the current filters.
func (v *View) Filters() Filters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters.clone()
}

// SetFilters merges patch into the current filters and notifies observers.
func (v *View) SetFilters(patch FilterPatch) {
	v.mu.Lock()
	v.filters = v.filters.apply(patch)
	v.mu.Unlock()
	v.bus.Notify()
}

// ResetFilters restores the default filters and notifies observers.
func (v *View) ResetFilters() {
	v.mu.Lock()
	v.filters = DefaultFilters()
	v.mu.Unlock()
	v.bus.Notify()
}

// Users returns the users matching the current filters.
func (v *View) Users() ([]User, error) {
	version := v.store.Version()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cached && v.version == version && v.memo.equal(v.filters) {
		return cloneUsers(v.users), v.err
	}

	users, err := Derive(v.store.Snapshot(), v.filters)
	v.cached = true
	v.derivations++
	v.version = version
	v.memo = v.filters.clone()
	v.users = users
	v.err = err
	return cloneUsers(users), err
}

// Subscribe registers observer for filter and store changes.
func (v *View) Subscribe(observer entity.Observer) (unsubscribe func()) {
	return v.bus.Subscribe(observer)
}

// Close detaches the view from its store and drops its observers.
func (v *View) Close() {
	v.unsubscribe()
	v.bus.Clear()
}

func cloneUsers(users []User) []User {
	if users == nil {
		return nil
	}
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = schema{}.Clone(u)
	}
	return out
}
