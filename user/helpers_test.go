package user

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
	c.now = c.now.Add(time.Hour)
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

	clock := &testClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
	opts = append([]entity.Option{entity.WithClock(clock.Now), entity.WithIDGenerator(sequence("u"))}, opts...)
	store, err := Open(state.NewAdapter[User](medium, Kind), opts...)
	if err != nil {
		t.Fatalf("failed to open user store: %v", err)
	}
	return store
}

func mustCreate(t *testing.T, store *Store, draft Draft) User {
	t.Helper()

	created, err := store.Create(draft)
	if err != nil {
		t.Fatalf("create %s: %v", draft.Email, err)
	}
	return created
}

func draft(email, name string, role Role, department string, skills ...string) Draft {
	return Draft{Email: email, Name: name, Role: role, Department: department, Skills: skills}
}

func names(users []User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
