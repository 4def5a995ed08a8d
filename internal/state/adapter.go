package state

import (
	"encoding/json"
	"fmt"
)

// Adapter persists one named collection of R through a Medium. It
// implements entity.Persister.
type Adapter[R any] struct {
	medium Medium
	name   string
}

// NewAdapter stores the collection called name in medium.
func NewAdapter[R any](medium Medium, name string) *Adapter[R] {
	return &Adapter[R]{medium: medium, name: name}
}

// Name returns the collection name.
func (a *Adapter[R]) Name() string {
	return a.name
}

// Load decodes the stored collection. Nothing stored yet yields an empty
// collection.
func (a *Adapter[R]) Load() ([]R, error) {
	data, ok, err := a.medium.Get(a.name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []R{}, nil
	}

	var doc document[R]
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", a.name, err)
	}
	if doc.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %s version %d", ErrUnsupportedVersion, a.name, doc.Version)
	}
	if doc.Name != "" && doc.Name != a.name {
		return nil, fmt.Errorf("unmarshal %s: document is named %q", a.name, doc.Name)
	}
	if doc.Records == nil {
		doc.Records = []R{}
	}
	return doc.Records, nil
}

// Save encodes records as the collection's full contents.
func (a *Adapter[R]) Save(records []R) error {
	if records == nil {
		records = []R{}
	}
	data, err := json.MarshalIndent(document[R]{Name: a.name, Version: FormatVersion, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", a.name, err)
	}
	data = append(data, '\n')
	return a.medium.Put(a.name, data)
}
