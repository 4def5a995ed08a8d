package todo

import (
	"errors"
	"strings"

	"github.com/amonks/flowstate/entity"
	"github.com/amonks/flowstate/internal/ids"
)

// Store is the canonical todo list.
type Store struct {
	*entity.Store[Todo, Patch]
}

// Open loads the todo list through persister. A nil persister keeps the list
// in memory only.
func Open(persister entity.Persister[Todo], opts ...entity.Option) (*Store, error) {
	opts = append(opts, entity.WithInsertFront())
	store, err := entity.Open[Todo, Patch](schema{}, persister, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{Store: store}, nil
}

// Create adds a todo with title and priority at the front of the list. An
// empty priority selects the default.
func (s *Store) Create(title string, priority Priority) (Todo, error) {
	return s.Add(Todo{Title: title, Priority: priority})
}

// ToggleCompleted flips the completion state of the todo with id.
func (s *Store) ToggleCompleted(id string) (Todo, error) {
	return s.Toggle(id, ToggleCompleted)
}

// Rename replaces the title of the todo with id.
func (s *Store) Rename(id string, title string) (Todo, error) {
	return s.Update(id, Patch{Title: &title})
}

// List returns the todos matching filter.
func (s *Store) List(filter Filter) ([]Todo, error) {
	return Derive(s.Snapshot(), filter)
}

// Stats summarizes the current list.
func (s *Store) Stats() Stats {
	return ComputeStats(s.Snapshot())
}

// IDIndex builds a prefix index over the current todos.
func (s *Store) IDIndex() IDIndex {
	return NewIDIndex(s.Snapshot())
}

// Resolve returns the todo whose id starts with prefix.
func (s *Store) Resolve(prefix string) (Todo, error) {
	id, err := s.IDIndex().Resolve(prefix)
	if err != nil {
		return Todo{}, err
	}
	return s.Get(id)
}

// IDIndex indexes todo IDs for prefix matching and display.
type IDIndex struct {
	index ids.Index
}

// NewIDIndex builds an IDIndex from a slice of todos.
func NewIDIndex(todos []Todo) IDIndex {
	todoIDs := make([]string, 0, len(todos))
	for _, todo := range todos {
		todoIDs = append(todoIDs, todo.ID)
	}
	return IDIndex{index: ids.NewIndex(todoIDs)}
}

// Resolve returns the full todo ID for a prefix. Unknown prefixes yield an
// entity.NotFoundError.
func (index IDIndex) Resolve(prefix string) (string, error) {
	id, err := index.index.Resolve(prefix)
	if errors.Is(err, ids.ErrUnknownIDPrefix) {
		return "", &entity.NotFoundError{Kind: Kind, ID: strings.TrimSpace(prefix)}
	}
	return id, err
}

// PrefixLengths returns the shortest unique prefix length for each ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return index.index.PrefixLengths()
}
