package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amonks/flowstate/entity"
)

// exitDurability is the status for a mutation that was applied but not saved.
const exitDurability = 3

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e exitError) ExitCode() int {
	return e.code
}

func (e exitError) Unwrap() error {
	return e.err
}

// reportError prints err to w the way cobra would, except that durability
// warnings are printed without the error prefix.
func reportError(w io.Writer, err error) {
	var exitErr exitError
	if errors.As(err, &exitErr) && exitErr.code == exitDurability {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// mutationError separates a durability warning from a failed mutation. ok
// reports whether the change was applied, so the caller should still print
// its result.
func mutationError(err error) (ok bool, result error) {
	if err == nil {
		return true, nil
	}
	if entity.IsDurabilityWarning(err) {
		return true, exitError{
			code: exitDurability,
			err:  fmt.Errorf("warning: change applied but recent changes may not survive a restart: %w", err),
		}
	}
	return false, describeError(err)
}

// describeError rewrites validation failures as one line per field.
func describeError(err error) error {
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "invalid %s:", strings.TrimSuffix(verr.Kind, "s"))
	for _, field := range verr.Fields.Fields() {
		fmt.Fprintf(&builder, "\n  %s: %s", field, verr.Fields[field])
	}
	return exitError{code: 1, err: errors.New(builder.String())}
}
