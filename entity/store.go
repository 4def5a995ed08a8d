// Package entity implements a reactive, in-memory store of uniquely
// identified records.
//
// A Store owns the canonical collection. Every mutation is validated against
// the record's field rules, applied in memory, written through a Persister and
// then announced to observers, in that order. Observers receive no payload:
// they re-read the collection with Snapshot and compute their own views with
// Derive, so no two observers can disagree about the canonical state.
//
// Record-specific behavior (defaults, patch merging, rules) is supplied by a
// Schema; see the todo and user packages.
package entity

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/amonks/flowstate/internal/ids"
	"github.com/amonks/flowstate/internal/validation"
)

// Schema describes one kind of record to a Store.
type Schema[R any, P any] interface {
	// Name identifies the collection, e.g. "todos". It is also the name of
	// the persisted record.
	Name() string

	// ID returns the record's identifier.
	ID(record R) string

	// Create assigns id and default fields to a draft.
	Create(draft R, id string, now time.Time) R

	// Apply merges patch into current. Fields absent from the patch are kept.
	Apply(current R, patch P, now time.Time) (R, error)

	// Toggle flips the named boolean field.
	Toggle(current R, field string, now time.Time) (R, error)

	// Rules returns the field rules checked before every add and update.
	Rules() validation.Rules[R]

	// Clone returns a deep copy of record.
	Clone(record R) R
}

// Persister mirrors the collection to durable storage.
type Persister[R any] interface {
	// Load returns the stored collection, or an empty one when nothing has
	// been stored yet.
	Load() ([]R, error)

	// Save replaces the stored collection. Implementations must not retain records.
	Save(records []R) error
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger      Logger
	now         func() time.Time
	newID       func() string
	insertFront bool
}

// WithLogger attaches a logger. A nil logger disables logging.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = noopLogger{}
		}
		o.logger = logger
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator replaces the random id generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// WithInsertFront makes Add place new records at the front of the collection.
func WithInsertFront() Option {
	return func(o *options) {
		o.insertFront = true
	}
}

// maxIDAttempts bounds how often Add re-draws an id that was already issued.
const maxIDAttempts = 100

// Store owns a canonical collection of records.
type Store[R any, P any] struct {
	schema    Schema[R, P]
	persister Persister[R]
	opts      options
	bus       Bus

	mu       sync.Mutex
	records  []R
	index    map[string]int
	issued   map[string]struct{}
	version  uint64
	failures int
	lastErr  error
	closed   bool
}

// DurabilityStatus summarizes recent persistence health.
type DurabilityStatus struct {
	// Failures counts consecutive failed saves. Zero means the last save succeeded.
	Failures  int
	LastError error
}

// Open loads the collection through persister and returns a Store. A nil
// persister keeps the collection in memory only.
func Open[R any, P any](schema Schema[R, P], persister Persister[R], opts ...Option) (*Store[R, P], error) {
	o := options{
		logger: noopLogger{},
		now:    time.Now,
		newID:  ids.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	s := &Store[R, P]{
		schema:    schema,
		persister: persister,
		opts:      o,
		index:     make(map[string]int),
		issued:    make(map[string]struct{}),
	}

	if persister == nil {
		return s, nil
	}

	start := time.Now()
	records, err := persister.Load()
	if err != nil {
		s.opts.logger.Persistence(PersistenceLog{Kind: schema.Name(), Op: "load", Duration: time.Since(start), Err: err})
		return nil, &PersistenceError{Op: "load", Kind: schema.Name(), Err: err}
	}
	for _, record := range records {
		id := schema.ID(record)
		if _, dup := s.index[id]; dup {
			err := fmt.Errorf("duplicate record id %q", id)
			return nil, &PersistenceError{Op: "load", Kind: schema.Name(), Err: err}
		}
		s.index[id] = len(s.records)
		s.issued[id] = struct{}{}
		s.records = append(s.records, schema.Clone(record))
	}
	s.opts.logger.Persistence(PersistenceLog{Kind: schema.Name(), Op: "load", Records: len(s.records), Duration: time.Since(start)})

	return s, nil
}

// Name returns the schema's collection name.
func (s *Store[R, P]) Name() string {
	return s.schema.Name()
}

// Add validates draft, assigns it a new id and defaults, and inserts it.
func (s *Store[R, P]) Add(draft R) (R, error) {
	return s.commit(OpAdd, "", func(now time.Time) (R, error) {
		var zero R
		id, err := s.nextIDLocked()
		if err != nil {
			return zero, err
		}
		record := s.schema.Create(s.schema.Clone(draft), id, now)
		if errs := s.schema.Rules().Validate(record, s.records); !errs.Empty() {
			return zero, &ValidationError{Kind: s.schema.Name(), Fields: errs}
		}

		s.issued[id] = struct{}{}
		if s.opts.insertFront {
			s.records = slices.Insert(s.records, 0, record)
			s.reindexLocked()
		} else {
			s.index[id] = len(s.records)
			s.records = append(s.records, record)
		}
		return s.schema.Clone(record), nil
	})
}

// Update merges patch into the record with id and re-validates it.
func (s *Store[R, P]) Update(id string, patch P) (R, error) {
	return s.commit(OpUpdate, id, func(now time.Time) (R, error) {
		var zero R
		pos, err := s.positionLocked(id)
		if err != nil {
			return zero, err
		}
		previous := s.records[pos]
		updated, err := s.schema.Apply(s.schema.Clone(previous), patch, now)
		if err != nil {
			return zero, err
		}
		if s.schema.ID(updated) != id {
			return zero, fmt.Errorf("%w: %s patch changed record id %q", ErrConfiguration, s.schema.Name(), id)
		}
		if errs := s.schema.Rules().ValidateChange(previous, updated, s.othersLocked(pos)); !errs.Empty() {
			return zero, &ValidationError{Kind: s.schema.Name(), Fields: errs}
		}
		s.records[pos] = updated
		return s.schema.Clone(updated), nil
	})
}

// Toggle flips a boolean field of the record with id.
func (s *Store[R, P]) Toggle(id string, field string) (R, error) {
	return s.commit(OpToggle, id, func(now time.Time) (R, error) {
		var zero R
		pos, err := s.positionLocked(id)
		if err != nil {
			return zero, err
		}
		updated, err := s.schema.Toggle(s.schema.Clone(s.records[pos]), field, now)
		if err != nil {
			return zero, err
		}
		s.records[pos] = updated
		return s.schema.Clone(updated), nil
	})
}

// Remove deletes the record with id. Removing an absent id, including one
// removed earlier, returns a NotFoundError.
func (s *Store[R, P]) Remove(id string) error {
	_, err := s.commit(OpRemove, id, func(time.Time) (R, error) {
		var zero R
		pos, err := s.positionLocked(id)
		if err != nil {
			return zero, err
		}
		removed := s.records[pos]
		s.records = slices.Delete(s.records, pos, pos+1)
		s.reindexLocked()
		return removed, nil
	})
	return err
}

// Get returns a copy of the record with id.
func (s *Store[R, P]) Get(id string) (R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, err := s.positionLocked(id)
	if err != nil {
		var zero R
		return zero, err
	}
	return s.schema.Clone(s.records[pos]), nil
}

// Snapshot returns a deep copy of the collection in canonical order.
func (s *Store[R, P]) Snapshot() []R {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]R, len(s.records))
	for i, record := range s.records {
		snapshot[i] = s.schema.Clone(record)
	}
	return snapshot
}

// Derive computes q over a fresh snapshot.
func (s *Store[R, P]) Derive(q Query[R]) []R {
	return Derive(s.Snapshot(), q)
}

// Len returns the number of records.
func (s *Store[R, P]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// IDs returns the record ids in canonical order.
func (s *Store[R, P]) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, s.schema.ID(record))
	}
	return out
}

// Version increases by one with every applied mutation. Callers memoizing
// derived views key them on (Version, parameters).
func (s *Store[R, P]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Durability reports the outcome of recent saves.
func (s *Store[R, P]) Durability() DurabilityStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DurabilityStatus{Failures: s.failures, LastError: s.lastErr}
}

// Validate checks draft as Add would, without changing anything.
func (s *Store[R, P]) Validate(draft R) validation.FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.schema.Create(s.schema.Clone(draft), "", s.opts.now())
	return s.schema.Rules().Validate(record, s.records)
}

// ValidateUpdate checks patch as Update would, without changing anything.
func (s *Store[R, P]) ValidateUpdate(id string, patch P) (validation.FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, err := s.positionLocked(id)
	if err != nil {
		return nil, err
	}
	previous := s.records[pos]
	updated, err := s.schema.Apply(s.schema.Clone(previous), patch, s.opts.now())
	if err != nil {
		return nil, err
	}
	return s.schema.Rules().ValidateChange(previous, updated, s.othersLocked(pos)), nil
}

// Subscribe registers observer for change notifications.
func (s *Store[R, P]) Subscribe(observer Observer) (unsubscribe func()) {
	return s.bus.Subscribe(observer)
}

// Close detaches every observer. Later mutations return ErrClosed; reads
// keep working.
func (s *Store[R, P]) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.bus.Clear()
	return nil
}

// commit runs change under the lock, persists the collection, then notifies
// observers outside the lock. change must leave the collection untouched when
// it returns an error.
func (s *Store[R, P]) commit(op Op, id string, change func(now time.Time) (R, error)) (R, error) {
	var zero R
	kind := s.schema.Name()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return zero, ErrClosed
	}
	record, err := change(s.opts.now())
	if err != nil {
		s.mu.Unlock()
		s.opts.logger.Mutation(MutationLog{Kind: kind, Op: op, ID: id, Err: err})
		return zero, err
	}
	s.version++
	version := s.version
	persistLog, perr := s.persistLocked()
	s.mu.Unlock()

	if persistLog != nil {
		s.opts.logger.Persistence(*persistLog)
	}
	s.opts.logger.Mutation(MutationLog{Kind: kind, Op: op, ID: s.schema.ID(record), Version: version})
	s.bus.Notify()

	if perr != nil {
		return record, perr
	}
	return record, nil
}

func (s *Store[R, P]) persistLocked() (*PersistenceLog, *PersistenceError) {
	if s.persister == nil {
		return nil, nil
	}
	kind := s.schema.Name()
	start := time.Now()
	err := s.persister.Save(slices.Clone(s.records))
	entry := &PersistenceLog{Kind: kind, Op: "save", Records: len(s.records), Duration: time.Since(start)}
	if err != nil {
		s.failures++
		s.lastErr = err
		entry.Failures = s.failures
		entry.Err = err
		return entry, &PersistenceError{Op: "save", Kind: kind, Failures: s.failures, Err: err}
	}
	s.failures = 0
	s.lastErr = nil
	return entry, nil
}

func (s *Store[R, P]) positionLocked(id string) (int, error) {
	pos, ok := s.index[id]
	if !ok {
		return 0, &NotFoundError{Kind: s.schema.Name(), ID: id}
	}
	return pos, nil
}

func (s *Store[R, P]) othersLocked(pos int) []R {
	others := make([]R, 0, len(s.records))
	others = append(others, s.records[:pos]...)
	return append(others, s.records[pos+1:]...)
}

func (s *Store[R, P]) reindexLocked() {
	clear(s.index)
	for i, record := range s.records {
		s.index[s.schema.ID(record)] = i
	}
}

func (s *Store[R, P]) nextIDLocked() (string, error) {
	for range maxIDAttempts {
		id := s.opts.newID()
		if id == "" {
			continue
		}
		if _, used := s.issued[id]; !used {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s id generator produced no unused id in %d attempts", ErrConfiguration, s.schema.Name(), maxIDAttempts)
}
