package user

import (
	"errors"
	"reflect"
	"testing"

	"github.com/amonks/flowstate/internal/predicate"
)

func TestCountWhere(t *testing.T) {
	cases := []struct {
		name       string
		lang       predicate.Language
		expression string
		want       int
	}{
		{name: "expr role", lang: predicate.LanguageExpr, expression: `role == "admin"`, want: 2},
		{name: "expr skills", lang: predicate.LanguageExpr, expression: `"sql" in skills && status != "suspended"`, want: 1},
		{name: "expr email domain", lang: predicate.LanguageExpr, expression: `email endsWith "@corp.io"`, want: 2},
		{name: "cel department", lang: predicate.LanguageCEL, expression: `department == "Sales"`, want: 2},
		{name: "cel skills", lang: predicate.LanguageCEL, expression: `size(skills) == 0`, want: 1},
		{name: "cel timestamp", lang: predicate.LanguageCEL, expression: `joinedAt >= timestamp("2024-01-02T00:00:00Z")`, want: 2},
		{name: "cel helper", lang: predicate.LanguageCEL, expression: `containsFold(name, "D")`, want: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			evaluator, err := NewEvaluator(tc.lang)
			if err != nil {
				t.Fatalf("new evaluator: %v", err)
			}
			got, err := CountWhere(sampleUsers(), evaluator, tc.expression)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCountWhere_Errors(t *testing.T) {
	evaluator, err := NewEvaluator(predicate.LanguageExpr)
	if err != nil {
		t.Fatalf("new evaluator: %v", err)
	}

	_, err = CountWhere(sampleUsers(), evaluator, `team == "x"`)
	var evalErr *predicate.EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
}

func TestWhere(t *testing.T) {
	evaluator, err := NewEvaluator(predicate.LanguageCEL)
	if err != nil {
		t.Fatalf("new evaluator: %v", err)
	}

	got, err := Where(sampleUsers(), evaluator, `role == "admin" || "excel" in skills`)
	if err != nil {
		t.Fatalf("where: %v", err)
	}
	if want := []string{"ada", "Bo", "Ädele"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("expected %v, got %v", want, names(got))
	}
}
