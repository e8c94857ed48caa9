package states

import (
	"context"

	"github.com/treeconf/treeconf/framework"
)

// newExitCommand returns exit command for input state.
func newExitCommand(name string, state State) *framework.Token {
	return framework.NewCommand(name, func(context.Context, *framework.Match) (framework.Result, error) {
		state.SetNext(&exitState{})
		return framework.NewResult(framework.SuccessCode, "Bye!"), nil
	}, framework.WithHelp("Closes the cli"))
}

// exitState simple exit state.
type exitState struct {
	CmdState
}

// SetupCommands setups the command.
func (s *exitState) SetupCommands() {}

// IsEnding returns true for exit State.
func (s *exitState) IsEnding() bool { return true }
