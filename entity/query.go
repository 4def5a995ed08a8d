package entity

import (
	"slices"
	"sync"
	"time"

	internalstrings "github.com/amonks/flowstate/internal/strings"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Predicate reports whether a record belongs in a derived view.
type Predicate[R any] func(R) bool

// Comparator orders two records, returning a negative number when a sorts
// before b, zero when they tie and a positive number otherwise.
type Comparator[R any] func(a, b R) int

// Query is the parameter set for Derive: a conjunction of predicates and an
// optional ordering. A zero Query matches everything in snapshot order.
type Query[R any] struct {
	Predicates []Predicate[R]
	Compare    Comparator[R]
}

// Match reports whether record satisfies every predicate.
func (q Query[R]) Match(record R) bool {
	for _, pred := range q.Predicates {
		if pred != nil && !pred(record) {
			return false
		}
	}
	return true
}

// Derive filters snapshot by q and sorts the result stably. It never modifies
// snapshot, and the result never shares its backing array.
func Derive[R any](snapshot []R, q Query[R]) []R {
	result := make([]R, 0, len(snapshot))
	for _, record := range snapshot {
		if q.Match(record) {
			result = append(result, record)
		}
	}
	if q.Compare != nil {
		slices.SortStableFunc(result, q.Compare)
	}
	return result
}

// MatchText matches records where any field contains query, ignoring case.
// An empty query matches everything.
func MatchText[R any](query string, fields ...func(R) string) Predicate[R] {
	if query == "" {
		return func(R) bool { return true }
	}
	return func(record R) bool {
		for _, field := range fields {
			if internalstrings.ContainsFold(field(record), query) {
				return true
			}
		}
		return false
	}
}

// MatchCategory restricts to records whose field equals value, unless value
// is the all sentinel.
func MatchCategory[R any, T comparable](value, all T, field func(R) T) Predicate[R] {
	if value == all {
		return func(R) bool { return true }
	}
	return func(record R) bool {
		return field(record) == value
	}
}

// MatchAnyTag matches records whose tag set intersects tags. An empty tags
// set matches everything.
func MatchAnyTag[R any](tags []string, field func(R) []string) Predicate[R] {
	if len(tags) == 0 {
		return func(R) bool { return true }
	}
	wanted := make(map[string]bool, len(tags))
	for _, tag := range tags {
		wanted[tag] = true
	}
	return func(record R) bool {
		for _, tag := range field(record) {
			if wanted[tag] {
				return true
			}
		}
		return false
	}
}

// ByTimeDesc orders records newest first.
func ByTimeDesc[R any](field func(R) time.Time) Comparator[R] {
	return func(a, b R) int {
		return field(b).Compare(field(a))
	}
}

// ByRank orders records ascending by a fixed rank table. Values missing from
// the table sort after every known value.
func ByRank[R any, T comparable](ranks map[T]int, field func(R) T) Comparator[R] {
	rank := func(record R) int {
		if r, ok := ranks[field(record)]; ok {
			return r
		}
		return len(ranks)
	}
	return func(a, b R) int {
		return rank(a) - rank(b)
	}
}

// ByCollated orders records ascending by field using the collation rules of tag.
func ByCollated[R any](tag language.Tag, field func(R) string) Comparator[R] {
	var mu sync.Mutex
	collator := collate.New(tag)
	return func(a, b R) int {
		mu.Lock()
		defer mu.Unlock()
		return collator.CompareString(field(a), field(b))
	}
}
