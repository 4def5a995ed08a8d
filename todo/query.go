package todo

import (
	"time"

	"golang.org/x/text/language"

	"github.com/amonks/flowstate/entity"
	internalstrings "github.com/amonks/flowstate/internal/strings"
)

// Completion restricts a view by completion state.
type Completion string

const (
	// CompletionAll shows every todo.
	CompletionAll Completion = "all"
	// CompletionActive shows todos that are not completed.
	CompletionActive Completion = "active"
	// CompletionCompleted shows completed todos.
	CompletionCompleted Completion = "completed"
)

// ValidCompletions returns all valid completion filters.
func ValidCompletions() []Completion {
	return []Completion{CompletionAll, CompletionActive, CompletionCompleted}
}

// SortKey orders a view.
type SortKey string

const (
	// SortDate lists newest first.
	SortDate SortKey = "date"
	// SortPriority lists high before medium before low.
	SortPriority SortKey = "priority"
	// SortAlphabetical lists titles in collation order.
	SortAlphabetical SortKey = "alphabetical"
)

// ValidSortKeys returns all valid sort keys.
func ValidSortKeys() []SortKey {
	return []SortKey{SortDate, SortPriority, SortAlphabetical}
}

// Filter parameterizes a derived todo view. The zero Filter shows every todo
// in list order.
type Filter struct {
	Completion Completion
	Search     string
	Sort       SortKey

	// Locale drives alphabetical ordering. The zero tag means English.
	Locale language.Tag
}

// ParseCompletion normalizes a completion filter. Empty selects all.
func ParseCompletion(value string) (Completion, error) {
	completion := Completion(internalstrings.NormalizeLowerTrimSpace(value))
	if completion == "" {
		return CompletionAll, nil
	}
	for _, valid := range ValidCompletions() {
		if completion == valid {
			return completion, nil
		}
	}
	return "", entity.NewConfigurationError("todo completion filter", completion, ValidCompletions())
}

// ParseSortKey normalizes a sort key. Empty keeps list order.
func ParseSortKey(value string) (SortKey, error) {
	key := SortKey(internalstrings.NormalizeLowerTrimSpace(value))
	if key == "" {
		return "", nil
	}
	for _, valid := range ValidSortKeys() {
		if key == valid {
			return key, nil
		}
	}
	return "", entity.NewConfigurationError("todo sort key", key, ValidSortKeys())
}

// Query builds the entity query for f.
func (f Filter) Query() (entity.Query[Todo], error) {
	var q entity.Query[Todo]

	switch f.Completion {
	case "", CompletionAll:
	case CompletionActive:
		q.Predicates = append(q.Predicates, func(t Todo) bool { return !t.Completed })
	case CompletionCompleted:
		q.Predicates = append(q.Predicates, func(t Todo) bool { return t.Completed })
	default:
		return q, entity.NewConfigurationError("todo completion filter", f.Completion, ValidCompletions())
	}

	if f.Search != "" {
		q.Predicates = append(q.Predicates, entity.MatchText(f.Search, func(t Todo) string { return t.Title }))
	}

	switch f.Sort {
	case "":
	case SortDate:
		q.Compare = entity.ByTimeDesc(func(t Todo) time.Time { return t.CreatedAt })
	case SortPriority:
		q.Compare = entity.ByRank(priorityRanks, func(t Todo) Priority { return t.Priority })
	case SortAlphabetical:
		locale := f.Locale
		if locale == language.Und {
			locale = language.English
		}
		q.Compare = entity.ByCollated(locale, func(t Todo) string { return t.Title })
	default:
		return q, entity.NewConfigurationError("todo sort key", f.Sort, ValidSortKeys())
	}

	return q, nil
}

// Derive returns the todos in snapshot that match f, in f's order.
func Derive(snapshot []Todo, f Filter) ([]Todo, error) {
	q, err := f.Query()
	if err != nil {
		return nil, err
	}
	return entity.Derive(snapshot, q), nil
}
