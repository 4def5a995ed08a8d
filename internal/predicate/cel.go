package predicate

import (
	"fmt"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	internalstrings "github.com/amonks/flowstate/internal/strings"
)

// celEvaluator compiles expressions with github.com/google/cel-go.
type celEvaluator struct {
	cfg config
	env *celgo.Env
}

func newCELEvaluator(cfg config) (*celEvaluator, error) {
	opts := []celgo.EnvOption{
		celgo.Function("containsFold",
			celgo.Overload("containsFold_string_string",
				[]*celgo.Type{celgo.StringType, celgo.StringType},
				celgo.BoolType,
				celgo.BinaryBinding(func(lhs, rhs ref.Val) ref.Val {
					s, ok := lhs.Value().(string)
					if !ok {
						return types.MaybeNoSuchOverloadErr(lhs)
					}
					substr, ok := rhs.Value().(string)
					if !ok {
						return types.MaybeNoSuchOverloadErr(rhs)
					}
					return types.Bool(internalstrings.ContainsFold(s, substr))
				}),
			),
		),
	}
	for name := range cfg.sample {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("build cel environment: %w", err)
	}
	return &celEvaluator{cfg: cfg, env: env}, nil
}

func (e *celEvaluator) Language() Language {
	return LanguageCEL
}

func (e *celEvaluator) Compile(expression string) (Program, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, wrapEvaluationError(LanguageCEL, expression, ErrEmptyExpression)
	}
	key := cacheKey(LanguageCEL, expression)
	if cached, ok := e.cfg.cache.Get(key); ok {
		return cached, nil
	}

	ast, issues := e.env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError(LanguageCEL, expression, issues.Err())
	}
	checked, issues := e.env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError(LanguageCEL, expression, issues.Err())
	}
	if out := checked.OutputType(); !out.IsExactType(celgo.BoolType) && !out.IsExactType(celgo.DynType) {
		return nil, wrapEvaluationError(LanguageCEL, expression, fmt.Errorf("%w: got %s", ErrNotBoolean, out))
	}
	prg, err := e.env.Program(checked)
	if err != nil {
		return nil, wrapEvaluationError(LanguageCEL, expression, err)
	}

	program := &celProgram{program: prg, expression: expression}
	e.cfg.cache.Set(key, program)
	return program, nil
}

type celProgram struct {
	program    celgo.Program
	expression string
}

func (p *celProgram) Match(env map[string]any) (bool, error) {
	out, _, err := p.program.Eval(env)
	if err != nil {
		return false, wrapEvaluationError(LanguageCEL, p.expression, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, wrapEvaluationError(LanguageCEL, p.expression, fmt.Errorf("%w: got %T", ErrNotBoolean, out.Value()))
	}
	return matched, nil
}
