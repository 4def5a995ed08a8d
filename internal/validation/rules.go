// Package validation evaluates field rules against candidate records.
//
// Rules never mutate the candidate or the collection it is checked against,
// so they are safe to run speculatively, for example while a form is being
// filled in.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// FieldErrors maps a field name to a message describing why it failed.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (errs FieldErrors) Empty() bool {
	return len(errs) == 0
}

// Fields returns the failed field names in sorted order.
func (errs FieldErrors) Fields() []string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// String renders the errors as "field: message" pairs in field order.
func (errs FieldErrors) String() string {
	parts := make([]string, 0, len(errs))
	for _, field := range errs.Fields() {
		parts = append(parts, field+": "+errs[field])
	}
	return strings.Join(parts, "; ")
}

// Rule declares the checks for one field.
type Rule[R any] struct {
	// Field names the field in error maps.
	Field string

	// Value extracts the field's text from a record.
	Value func(R) string

	// Required rejects blank values.
	Required        bool
	RequiredMessage string

	// Pattern, when set, must match non-blank values.
	Pattern        *regexp.Regexp
	PatternMessage string

	// MaxLength, when positive, caps the value's length in characters.
	MaxLength        int
	MaxLengthMessage string

	// Check runs a custom predicate and returns a message on failure.
	Check func(R) string

	// Unique rejects a value already held by another record.
	Unique        bool
	UniqueMessage string

	// FoldCase compares unique values case-insensitively.
	FoldCase bool
}

// Rules is an ordered set of field rules.
type Rules[R any] []Rule[R]

// Validate checks candidate against every rule. others holds the records the
// candidate must be unique against and must not include the candidate itself.
func (rules Rules[R]) Validate(candidate R, others []R) FieldErrors {
	return rules.validate(candidate, others, nil)
}

// ValidateChange checks an updated record. Uniqueness is only re-checked for
// fields whose value differs from previous.
func (rules Rules[R]) ValidateChange(previous, candidate R, others []R) FieldErrors {
	return rules.validate(candidate, others, &previous)
}

func (rules Rules[R]) validate(candidate R, others []R, previous *R) FieldErrors {
	errs := FieldErrors{}
	for _, rule := range rules {
		if _, failed := errs[rule.Field]; failed {
			continue
		}
		if msg := rule.evaluate(candidate, others, previous); msg != "" {
			errs[rule.Field] = msg
		}
	}
	return errs
}

func (rule Rule[R]) evaluate(candidate R, others []R, previous *R) string {
	value := ""
	if rule.Value != nil {
		value = strings.TrimSpace(rule.Value(candidate))
	}

	if value == "" {
		if rule.Required {
			return messageOr(rule.RequiredMessage, "%s is required", rule.Field)
		}
	} else {
		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			return messageOr(rule.PatternMessage, "%s is not valid", rule.Field)
		}
		if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
			if rule.MaxLengthMessage != "" {
				return rule.MaxLengthMessage
			}
			return fmt.Sprintf("%s exceeds maximum length (%d > %d)", rule.Field, utf8.RuneCountInString(value), rule.MaxLength)
		}
	}

	if rule.Check != nil {
		if msg := rule.Check(candidate); msg != "" {
			return msg
		}
	}

	if !rule.Unique || value == "" || rule.Value == nil {
		return ""
	}
	if previous != nil && rule.equal(strings.TrimSpace(rule.Value(*previous)), value) {
		return ""
	}
	for _, other := range others {
		if rule.equal(strings.TrimSpace(rule.Value(other)), value) {
			return messageOr(rule.UniqueMessage, "%s is already in use", rule.Field)
		}
	}
	return ""
}

func (rule Rule[R]) equal(a, b string) bool {
	if rule.FoldCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func messageOr(message, format, field string) string {
	if message != "" {
		return message
	}
	return fmt.Sprintf(format, field)
}

// OneOf returns a Check that accepts only the listed values.
func OneOf[R any, T ~string](field string, value func(R) T, valid []T) func(R) string {
	return func(record R) string {
		got := value(record)
		for _, candidate := range valid {
			if got == candidate {
				return ""
			}
		}
		return fmt.Sprintf("invalid %s %q (valid: %s)", field, got, FormatValidValues(valid))
	}
}
