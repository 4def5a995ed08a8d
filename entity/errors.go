package entity

import (
	"errors"
	"fmt"

	"github.com/amonks/flowstate/internal/validation"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration is matched by every ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrPersistence is matched by every PersistenceError.
	ErrPersistence = errors.New("persistence failed")

	// ErrClosed is returned by mutations on a closed store.
	ErrClosed = errors.New("store is closed")
)

// ValidationError reports a candidate record that failed its field rules.
// The mutation was not applied.
type ValidationError struct {
	Kind   string
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, ErrValidation, e.Fields)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports an id that is not in the collection.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, ErrNotFound, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConfigurationError reports an unrecognized enum value supplied by a caller,
// such as an unknown sort key. It indicates a programming error.
type ConfigurationError struct {
	// Name describes what was configured, e.g. "todo sort key".
	Name  string
	Value string
	Valid []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("%s: %s %q", ErrConfiguration, e.Name, e.Value)
	}
	return fmt.Sprintf("%s: %s %q (valid: %s)", ErrConfiguration, e.Name, e.Value, validation.FormatValidValues(e.Valid))
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError builds a ConfigurationError for a string-like enum.
func NewConfigurationError[T ~string](name string, value T, valid []T) *ConfigurationError {
	formatted := make([]string, 0, len(valid))
	for _, v := range valid {
		formatted = append(formatted, string(v))
	}
	return &ConfigurationError{Name: name, Value: string(value), Valid: formatted}
}

// PersistenceError reports a failed load or save. When returned from a
// mutation, the mutation has already been applied in memory and observers
// have been notified; only its durability is uncertain.
type PersistenceError struct {
	// Op is "load" or "save".
	Op   string
	Kind string

	// Failures counts consecutive failed saves, including this one.
	Failures int

	Err error
}

func (e *PersistenceError) Error() string {
	if e.Op == "save" && e.Failures > 1 {
		return fmt.Sprintf("%s: %s %s (%d consecutive failures): %v", ErrPersistence, e.Op, e.Kind, e.Failures, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", ErrPersistence, e.Op, e.Kind, e.Err)
}

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsDurabilityWarning reports whether err only signals that an applied
// mutation may not have reached durable storage.
func IsDurabilityWarning(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr) && perr.Op == "save"
}
