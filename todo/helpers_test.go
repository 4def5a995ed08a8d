package todo

import (
	"fmt"
	"testing"
	"time"

	"github.com/amonks/flowstate/entity"
	"github.com/amonks/flowstate/internal/state"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%02d", prefix, n)
	}
}

func openTestStore(t *testing.T, medium state.Medium, opts ...entity.Option) *Store {
	t.Helper()

	clock := &testClock{now: time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)}
	opts = append([]entity.Option{entity.WithClock(clock.Now), entity.WithIDGenerator(sequence("t"))}, opts...)
	store, err := Open(state.NewAdapter[Todo](medium, Kind), opts...)
	if err != nil {
		t.Fatalf("failed to open todo store: %v", err)
	}
	return store
}

func titles(todos []Todo) []string {
	out := make([]string, 0, len(todos))
	for _, todo := range todos {
		out = append(out, todo.Title)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
