package framework

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Parse matches args against the tree rooted at t and runs the deepest
// matched command. args shall not contain the program name: t is selected
// implicitly.
//
// The returned error is a *ParseError when the input does not fit the tree,
// or a *RunError when a command action failed; use Classify to tell them apart.
func (t *Token) Parse(ctx context.Context, args []string) (Result, error) {
	_, res, err := t.Execute(ctx, args)
	return res, err
}

// Execute works like Parse and also returns the captures of the parse.
func (t *Token) Execute(ctx context.Context, args []string) (*Match, Result, error) {
	m := newMatch(t)
	res, err := t.parse(ctx, m, t.name, args, "")
	return m, res, err
}

// parse is the per node step. selected is the input text that selected t,
// rest the input after it.
func (t *Token) parse(ctx context.Context, m *Match, selected string, rest []string, history string) (Result, error) {
	m.enter(t, selected)
	if history != "" {
		history += " "
	}
	history += t.name

	res, err := t.step(ctx, m, rest, history)
	if err != nil || t.kind != KindCommand {
		return res, err
	}
	if res.Code != SuccessCode {
		return res, nil
	}
	return t.invoke(ctx, m)
}

func (t *Token) step(ctx context.Context, m *Match, rest []string, history string) (Result, error) {
	if len(rest) > 0 {
		next := rest[0]
		if child := t.FindChild(next); child != nil {
			return child.parse(ctx, m, next, rest[1:], history)
		}
		if t.argChild != nil {
			return t.argChild.parse(ctx, m, next, rest[1:], history)
		}
		if len(t.children) == 0 {
			return parseFailure(newParseError(t, MsgTooManyArguments, m.root, history))
		}
		return parseFailure(newParseError(t, MsgWrongArgument, m.root, history))
	}

	switch {
	case t.mayTerminate:
		return Success, nil
	case !t.IsLeaf():
		return parseFailure(newParseError(t, MsgNotEnoughArgument, m.root, history))
	default:
		return Success, nil
	}
}

func parseFailure(err *ParseError) (Result, error) {
	return Result{Code: FailureCode, Message: err.Message}, err
}

// invoke runs the command action and normalizes its error so that the
// offending token of a run failure is always set.
func (t *Token) invoke(ctx context.Context, m *Match) (Result, error) {
	if t.run == nil {
		return Success, nil
	}
	if err := ctx.Err(); err != nil {
		return runFailure(WrapRunError(t, err, "Command interrupted"))
	}

	res, err := t.run(ctx, m)
	if err == nil {
		return res, nil
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		return Result{Code: FailureCode, Message: pe.Message}, err
	}
	var re *RunError
	if errors.As(err, &re) {
		if re.Token != nil {
			return Result{Code: FailureCode, Message: re.Message}, err
		}
		return runFailure(&RunError{Token: t, Message: re.Message, cause: re.cause})
	}
	return runFailure(WrapRunError(t, err, fmt.Sprintf("Command %s failed", t.name)))
}

func runFailure(err *RunError) (Result, error) {
	return Result{Code: FailureCode, Message: err.Message}, err
}
