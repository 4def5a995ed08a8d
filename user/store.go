package user

import (
	"errors"
	"strings"

	"github.com/amonks/flowstate/entity"
	"github.com/amonks/flowstate/internal/ids"
	"github.com/amonks/flowstate/internal/validation"
)

// Store is the canonical user directory.
type Store struct {
	*entity.Store[User, Patch]
}

// Open loads the directory through persister. A nil persister keeps it in
// memory only.
func Open(persister entity.Persister[User], opts ...entity.Option) (*Store, error) {
	store, err := entity.Open[User, Patch](schema{}, persister, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{Store: store}, nil
}

// Create adds a user from form data with status active.
func (s *Store) Create(draft Draft) (User, error) {
	return s.Add(draft.user())
}

// ValidateDraft checks draft as Create would, without changing anything.
func (s *Store) ValidateDraft(draft Draft) validation.FieldErrors {
	return s.Validate(draft.user())
}

// List returns the users matching filters.
func (s *Store) List(filters Filters) ([]User, error) {
	return Derive(s.Snapshot(), filters)
}

// Stats summarizes the current directory.
func (s *Store) Stats() Stats {
	return ComputeStats(s.Snapshot())
}

// Departments returns the distinct departments in first-seen order.
func (s *Store) Departments() []string {
	return Departments(s.Snapshot())
}

// Skills returns the distinct skills in first-seen order.
func (s *Store) Skills() []string {
	return Skills(s.Snapshot())
}

// Resolve returns the user whose id starts with prefix.
func (s *Store) Resolve(prefix string) (User, error) {
	index := ids.NewIndex(s.IDs())
	id, err := index.Resolve(prefix)
	if errors.Is(err, ids.ErrUnknownIDPrefix) {
		return User{}, &entity.NotFoundError{Kind: Kind, ID: strings.TrimSpace(prefix)}
	}
	if err != nil {
		return User{}, err
	}
	return s.Get(id)
}

// PrefixLengths returns the shortest unique prefix length for each user id.
func (s *Store) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengths(s.IDs())
}
