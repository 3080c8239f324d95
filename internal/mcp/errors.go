package mcp

import (
	"fmt"
	"strings"
)

// FieldError names one argument whose runtime type or value did not match
// the declared schema.
type FieldError struct {
	Name   string
	Reason string
}

// InvalidArgumentsError reports every missing required field and every
// type-mismatched field found while validating one command invocation.
type InvalidArgumentsError struct {
	Command    string
	Missing    []string
	Mismatched []FieldError
}

func (e *InvalidArgumentsError) Error() string {
	var parts []string
	for _, name := range e.Missing {
		parts = append(parts, fmt.Sprintf("missing required field %q", name))
	}
	for _, f := range e.Mismatched {
		parts = append(parts, fmt.Sprintf("field %q: %s", f.Name, f.Reason))
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Command, strings.Join(parts, "; "))
}

// NotFoundError reports that name-based resolution matched no task. It is an
// informational outcome, not a system fault: the dispatcher renders it as a
// non-error response carrying the original search text.
type NotFoundError struct {
	Fragment string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find a task matching %q", e.Fragment)
}
