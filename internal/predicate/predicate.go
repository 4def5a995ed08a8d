// Package predicate compiles user-supplied boolean expressions into record
// predicates. Two dialects are supported: expr (github.com/expr-lang/expr)
// and CEL (github.com/google/cel-go). Records are exposed to expressions as a
// flat map of field name to value.
package predicate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/amonks/flowstate/entity"
	internalstrings "github.com/amonks/flowstate/internal/strings"
	"github.com/amonks/flowstate/internal/validation"
)

// Language selects an expression dialect.
type Language string

const (
	// LanguageExpr evaluates expressions with expr-lang.
	LanguageExpr Language = "expr"
	// LanguageCEL evaluates expressions with the Common Expression Language.
	LanguageCEL Language = "cel"
)

// ValidLanguages returns all supported dialects.
func ValidLanguages() []Language {
	return []Language{LanguageExpr, LanguageCEL}
}

var (
	// ErrUnknownLanguage indicates an unsupported dialect name.
	ErrUnknownLanguage = errors.New("unknown expression language")

	// ErrEmptyExpression indicates a blank expression.
	ErrEmptyExpression = errors.New("expression must not be empty")

	// ErrNotBoolean indicates an expression that does not yield a bool.
	ErrNotBoolean = errors.New("expression does not yield a boolean")
)

// ParseLanguage parses a dialect name. Empty selects expr.
func ParseLanguage(name string) (Language, error) {
	lang := Language(internalstrings.NormalizeLowerTrimSpace(name))
	if lang == "" {
		return LanguageExpr, nil
	}
	for _, valid := range ValidLanguages() {
		if lang == valid {
			return lang, nil
		}
	}
	return "", validation.FormatInvalidValueError(ErrUnknownLanguage, lang, ValidLanguages())
}

// Program is a compiled expression.
type Program interface {
	// Match evaluates the expression against env.
	Match(env map[string]any) (bool, error)
}

// Evaluator compiles expressions of one dialect.
type Evaluator interface {
	Language() Language
	Compile(expression string) (Program, error)
}

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	sample map[string]any
	cache  *Cache
}

// WithEnv declares the variables records expose, using sample values for
// their types. Expressions referencing other names fail to compile.
func WithEnv(sample map[string]any) Option {
	return func(c *config) {
		c.sample = sample
	}
}

// WithCache shares compiled programs across evaluators of the same dialect
// and environment.
func WithCache(cache *Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// New returns an Evaluator for lang.
func New(lang Language, opts ...Option) (Evaluator, error) {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.cache == nil {
		cfg.cache = NewCache()
	}
	switch lang {
	case LanguageExpr, "":
		return newExprEvaluator(cfg), nil
	case LanguageCEL:
		return newCELEvaluator(cfg)
	default:
		return nil, validation.FormatInvalidValueError(ErrUnknownLanguage, lang, ValidLanguages())
	}
}

// EvaluationError captures the dialect and expression alongside the cause.
type EvaluationError struct {
	Language   Language
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s expression %q: %v", e.Language, e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func wrapEvaluationError(lang Language, expression string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	return &EvaluationError{Language: lang, Expression: expression, Err: err}
}

// Cache stores compiled programs keyed by expression.
type Cache struct {
	mu       sync.Mutex
	programs map[string]Program
}

// NewCache returns an empty program cache.
func NewCache() *Cache {
	return &Cache{programs: make(map[string]Program)}
}

// Get returns the cached program for key.
func (c *Cache) Get(key string) (Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	program, ok := c.programs[key]
	return program, ok
}

// Set caches program under key.
func (c *Cache) Set(key string, program Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs[key] = program
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.programs)
}

func cacheKey(lang Language, expression string) string {
	return string(lang) + "\x00" + expression
}

// Filter adapts a compiled expression to an entity.Predicate.
type Filter[R any] struct {
	program Program
	env     func(R) map[string]any

	mu  sync.Mutex
	err error
}

// NewFilter compiles expression with evaluator. env maps a record to the
// variables the expression sees.
func NewFilter[R any](evaluator Evaluator, expression string, env func(R) map[string]any) (*Filter[R], error) {
	program, err := evaluator.Compile(expression)
	if err != nil {
		return nil, err
	}
	return &Filter[R]{program: program, env: env}, nil
}

// Match evaluates the expression against record.
func (f *Filter[R]) Match(record R) (bool, error) {
	return f.program.Match(f.env(record))
}

// Predicate returns an entity.Predicate. A record whose evaluation fails
// does not match; the first failure is kept for Err.
func (f *Filter[R]) Predicate() entity.Predicate[R] {
	return func(record R) bool {
		ok, err := f.Match(record)
		if err != nil {
			f.mu.Lock()
			if f.err == nil {
				f.err = err
			}
			f.mu.Unlock()
			return false
		}
		return ok
	}
}

// Err returns the first evaluation failure seen by Predicate.
func (f *Filter[R]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
