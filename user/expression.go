package user

import (
	"github.com/amonks/flowstate/entity"
	"github.com/amonks/flowstate/internal/predicate"
)

// Env exposes u to predicate expressions.
func Env(u User) map[string]any {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return map[string]any{
		"id":           u.ID,
		"email":        u.Email,
		"name":         u.Name,
		"role":         string(u.Role),
		"status":       string(u.Status),
		"department":   u.Department,
		"skills":       skills,
		"avatar":       u.Avatar,
		"joinedAt":     u.JoinedAt,
		"lastActiveAt": u.LastActiveAt,
	}
}

// NewEvaluator returns an evaluator for lang that knows the user variables.
func NewEvaluator(lang predicate.Language, opts ...predicate.Option) (predicate.Evaluator, error) {
	opts = append([]predicate.Option{predicate.WithEnv(Env(User{}))}, opts...)
	return predicate.New(lang, opts...)
}

// CountWhere counts the users in snapshot matching expression.
func CountWhere(snapshot []User, evaluator predicate.Evaluator, expression string) (int, error) {
	filter, err := predicate.NewFilter(evaluator, expression, Env)
	if err != nil {
		return 0, err
	}
	count := entity.Count(snapshot, filter.Predicate())
	if err := filter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

// Where returns the users in snapshot matching expression, in snapshot order.
func Where(snapshot []User, evaluator predicate.Evaluator, expression string) ([]User, error) {
	filter, err := predicate.NewFilter(evaluator, expression, Env)
	if err != nil {
		return nil, err
	}
	users := entity.Derive(snapshot, entity.Query[User]{Predicates: []entity.Predicate[User]{filter.Predicate()}})
	if err := filter.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
