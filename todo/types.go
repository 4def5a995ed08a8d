// Package todo implements a prioritized todo list on top of an entity store.
//
// New todos go to the front of the list. Views are derived on demand from a
// snapshot with a Filter (completion state, title search, sort order), so
// callers hold their own filter state.
package todo

import "time"

// Kind is the collection name used for persistence and logs.
const Kind = "todos"

// MaxTitleLength is the maximum number of characters in a title.
const MaxTitleLength = 500

// Priority ranks how urgent a todo is.
type Priority string

const (
	// PriorityHigh sorts first.
	PriorityHigh Priority = "high"

	// PriorityMedium is the default.
	PriorityMedium Priority = "medium"

	// PriorityLow sorts last.
	PriorityLow Priority = "low"
)

// DefaultPriority is used when a draft has no priority.
const DefaultPriority = PriorityMedium

// ValidPriorities returns all valid priority values, most urgent first.
func ValidPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// priorityRanks orders priorities for sorting.
var priorityRanks = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// PriorityRank returns the sort rank for a priority. Unknown values rank last.
func PriorityRank(p Priority) int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}
	return len(priorityRanks)
}

// Todo is a single todo item.
type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"isCompleted"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch lists the fields an update may change. Nil fields are left alone.
type Patch struct {
	Title     *string
	Priority  *Priority
	Completed *bool
}

// ToggleCompleted is the only field Toggle accepts.
const ToggleCompleted = "completed"
