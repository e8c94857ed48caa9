package framework

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Messages carried by ParseError.
const (
	MsgTooManyArguments  = "Too many arguments"
	MsgWrongArgument     = "Wrong argument"
	MsgNotEnoughArgument = "Not enough arguments"
)

// ParseError is returned by the matcher when the input does not fit the tree.
// It is never produced by application code.
type ParseError struct {
	// Token is the node where the mismatch was detected.
	Token *Token
	// Message is one of the Msg* constants.
	Message string
	// Root is the root of the whole tree, used to regenerate usage.
	Root *Token
	// History is the space-joined names of the matched nodes, root first.
	History string
}

func newParseError(where *Token, msg string, root *Token, history string) *ParseError {
	return &ParseError{
		Token:   where,
		Message: msg,
		Root:    root,
		History: history,
	}
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Token == nil {
		return e.Message
	}
	return fmt.Sprintf("%s after %q", e.Message, e.Token.Name())
}

// RunError signals a semantic failure raised by a command action or by a
// value conversion, after the structural match already succeeded.
type RunError struct {
	Token   *Token
	Message string
	cause   error
}

// NewRunError returns a RunError for the provided token.
func NewRunError(where *Token, format string, args ...any) *RunError {
	return &RunError{
		Token:   where,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapRunError returns a RunError for the provided token keeping err as cause.
func WrapRunError(where *Token, err error, msg string) *RunError {
	return &RunError{
		Token:   where,
		Message: msg,
		cause:   err,
	}
}

// Error implements error.
func (e *RunError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause.Error())
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *RunError) Unwrap() error {
	return e.cause
}

// OutcomeKind classifies what a parse ended with.
type OutcomeKind int

const (
	// OutcomeCompleted means a Result was produced, early results included.
	OutcomeCompleted OutcomeKind = iota
	// OutcomeParseFailed means the input did not match the tree.
	OutcomeParseFailed
	// OutcomeRunFailed means a command action failed.
	OutcomeRunFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeParseFailed:
		return "parse-failed"
	case OutcomeRunFailed:
		return "run-failed"
	default:
		return "unknown"
	}
}

// Classify maps the error returned by Parse to an OutcomeKind.
// Errors that are neither ParseError nor RunError count as run failures.
func Classify(err error) OutcomeKind {
	if err == nil {
		return OutcomeCompleted
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return OutcomeParseFailed
	}
	return OutcomeRunFailed
}

// ExitCode maps a parse outcome to a process exit code.
func ExitCode(res Result, err error) int {
	switch Classify(err) {
	case OutcomeParseFailed:
		return 2
	case OutcomeRunFailed:
		return 1
	}
	if res.Code < 0 || res.Code > 255 {
		return 1
	}
	return res.Code
}
