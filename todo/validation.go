package todo

import (
	"errors"
	"strings"
	"time"

	"github.com/amonks/flowstate/entity"
	internalstrings "github.com/amonks/flowstate/internal/strings"
	"github.com/amonks/flowstate/internal/validation"
)

// ErrInvalidPriority is returned when a priority string is not recognized.
var ErrInvalidPriority = errors.New("invalid priority")

// ParsePriority normalizes and validates a priority. Empty selects the default.
func ParsePriority(value string) (Priority, error) {
	priority := Priority(internalstrings.NormalizeLowerTrimSpace(value))
	if priority == "" {
		return DefaultPriority, nil
	}
	if !priority.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidPriority, priority, ValidPriorities())
	}
	return priority, nil
}

// Rules returns the field rules every todo must satisfy.
func Rules() validation.Rules[Todo] {
	return validation.Rules[Todo]{
		{
			Field:     "title",
			Value:     func(t Todo) string { return t.Title },
			Required:  true,
			MaxLength: MaxTitleLength,
		},
		{
			Field: "priority",
			Check: validation.OneOf("priority", func(t Todo) Priority { return t.Priority }, ValidPriorities()),
		},
	}
}

// schema adapts Todo to entity.Store.
type schema struct{}

var _ entity.Schema[Todo, Patch] = schema{}

func (schema) Name() string { return Kind }

func (schema) ID(t Todo) string { return t.ID }

func (schema) Clone(t Todo) Todo { return t }

func (schema) Rules() validation.Rules[Todo] { return Rules() }

func (schema) Create(draft Todo, id string, now time.Time) Todo {
	draft.ID = id
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Completed = false
	if draft.Priority == "" {
		draft.Priority = DefaultPriority
	}
	draft.CreatedAt = now
	draft.UpdatedAt = now
	return draft
}

func (schema) Apply(current Todo, patch Patch, now time.Time) (Todo, error) {
	if patch.Title != nil {
		current.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Priority != nil {
		current.Priority = *patch.Priority
	}
	if patch.Completed != nil {
		current.Completed = *patch.Completed
	}
	current.UpdatedAt = now
	return current, nil
}

func (schema) Toggle(current Todo, field string, now time.Time) (Todo, error) {
	if field != ToggleCompleted {
		return current, entity.NewConfigurationError("todo toggle field", field, []string{ToggleCompleted})
	}
	current.Completed = !current.Completed
	current.UpdatedAt = now
	return current, nil
}
