package entity

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amonks/flowstate/internal/validation"
)

type note struct {
	ID        string
	Title     string
	Done      bool
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type notePatch struct {
	Title *string
	Tags  *[]string
}

type noteSchema struct{}

func (noteSchema) Name() string { return "notes" }
func (noteSchema) ID(n note) string { return n.ID }
func (noteSchema) Clone(n note) note {
	n.Tags = slices.Clone(n.Tags)
	return n
}

func (noteSchema) Rules() validation.Rules[note] {
	return validation.Rules[note]{
		{Field: "title", Value: func(n note) string { return n.Title }, Required: true, Unique: true},
	}
}

func (noteSchema) Create(draft note, id string, now time.Time) note {
	draft.ID = id
	draft.Title = strings.TrimSpace(draft.Title)
	draft.CreatedAt = now
	draft.UpdatedAt = now
	return draft
}

func (noteSchema) Apply(current note, patch notePatch, now time.Time) (note, error) {
	if patch.Title != nil {
		current.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Tags != nil {
		current.Tags = slices.Clone(*patch.Tags)
	}
	current.UpdatedAt = now
	return current, nil
}

func (noteSchema) Toggle(current note, field string, now time.Time) (note, error) {
	if field != "done" {
		return current, NewConfigurationError("note toggle field", field, []string{"done"})
	}
	current.Done = !current.Done
	current.UpdatedAt = now
	return current, nil
}

type memoryPersister struct {
	records []note
	saves   int
	loadErr error
	saveErr error
}

func (p *memoryPersister) Load() ([]note, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return slices.Clone(p.records), nil
}

func (p *memoryPersister) Save(records []note) error {
	p.saves++
	if p.saveErr != nil {
		return p.saveErr
	}
	p.records = slices.Clone(records)
	return nil
}

var errDiskFull = errors.New("disk full")

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func strPtr(s string) *string { return &s }
