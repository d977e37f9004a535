// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is a user-facing failure: the operation that failed, the
	// path it failed on, what to try next and, optionally, the catalog issue
	// explaining it. Construct it with NewErrorContext:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("read build script").
	//		WithResource("./mod.yml").
	//		WithIssue(issue.ScriptParseErrorId).
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "write volume".
		Operation   string
		Resource    string
		Suggestions []string
		// Issue is zero when no catalog page applies.
		Issue Id
		Cause error
	}

	// ErrorContext accumulates the fields of an ActionableError.
	ErrorContext struct {
		draft ActionableError
	}
)

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders Error followed by a bulleted suggestion list. Verbose
// output also numbers every error in the cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		sb.WriteByte('\n')
	}
	for _, s := range e.Suggestions {
		sb.WriteString("\n  • " + s)
	}

	if verbose && e.Cause != nil {
		sb.WriteString("\n\nError chain:")
		for i, msg := range causeChain(e.Cause) {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, msg)
		}
	}
	return sb.String()
}

func causeChain(err error) []string {
	var msgs []string
	for ; err != nil; err = errors.Unwrap(err) {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.draft.Operation = op
	return c
}

func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.draft.Resource = res
	return c
}

// WithSuggestion appends one suggestion line.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.draft.Suggestions = append(c.draft.Suggestions, s)
	return c
}

func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.draft.Issue = id
	return c
}

// Wrap records err as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.draft.Cause = err
	return c
}

// Build returns a copy of the accumulated error, or nil without an operation.
func (c *ErrorContext) Build() *ActionableError {
	if c.draft.Operation == "" {
		return nil
	}
	ae := c.draft
	ae.Suggestions = append([]string(nil), c.draft.Suggestions...)
	return &ae
}

// BuildError is Build typed as error, so a missing operation yields a nil interface.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}

// IssueOf returns the first catalog issue linked in err's chain.
func IssueOf(err error) *Issue {
	var ae *ActionableError
	for errors.As(err, &ae) {
		if ae.Issue != 0 {
			return Get(ae.Issue)
		}
		err = ae.Cause
	}
	return nil
}
