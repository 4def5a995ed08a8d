package todo

import "github.com/amonks/flowstate/entity"

// Stats summarizes a todo list.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`

	// HighPriority counts incomplete high-priority todos.
	HighPriority int `json:"highPriority"`
}

// ComputeStats aggregates snapshot.
func ComputeStats(snapshot []Todo) Stats {
	completed := entity.Count(snapshot, func(t Todo) bool { return t.Completed })
	return Stats{
		Total:     len(snapshot),
		Active:    len(snapshot) - completed,
		Completed: completed,
		HighPriority: entity.Count(snapshot, func(t Todo) bool {
			return t.Priority == PriorityHigh && !t.Completed
		}),
	}
}
