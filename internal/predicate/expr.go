package predicate

import (
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	internalstrings "github.com/amonks/flowstate/internal/strings"
)

// exprEvaluator compiles expressions with github.com/expr-lang/expr.
type exprEvaluator struct {
	cfg config
}

func newExprEvaluator(cfg config) *exprEvaluator {
	return &exprEvaluator{cfg: cfg}
}

func (e *exprEvaluator) Language() Language {
	return LanguageExpr
}

func (e *exprEvaluator) Compile(expression string) (Program, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, wrapEvaluationError(LanguageExpr, expression, ErrEmptyExpression)
	}
	key := cacheKey(LanguageExpr, expression)
	if cached, ok := e.cfg.cache.Get(key); ok {
		return cached, nil
	}

	env := e.cfg.sample
	if env == nil {
		env = map[string]any{}
	}
	options := []exprlang.Option{
		exprlang.Env(env),
		exprlang.Function("containsFold", func(params ...any) (any, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("containsFold expects 2 arguments, got %d", len(params))
			}
			return internalstrings.ContainsFold(fmt.Sprint(params[0]), fmt.Sprint(params[1])), nil
		}),
	}
	if e.cfg.sample == nil {
		options = append(options, exprlang.AllowUndefinedVariables())
	}
	compiled, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapEvaluationError(LanguageExpr, expression, err)
	}
	program := &exprProgram{program: compiled, expression: expression}
	e.cfg.cache.Set(key, program)
	return program, nil
}

type exprProgram struct {
	program    *exprvm.Program
	expression string
}

func (p *exprProgram) Match(env map[string]any) (bool, error) {
	result, err := exprlang.Run(p.program, env)
	if err != nil {
		return false, wrapEvaluationError(LanguageExpr, p.expression, err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, wrapEvaluationError(LanguageExpr, p.expression, fmt.Errorf("%w: got %T", ErrNotBoolean, result))
	}
	return matched, nil
}
