package states

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/treeconf/treeconf/common"
	"github.com/treeconf/treeconf/configs"
	"github.com/treeconf/treeconf/framework"
	"github.com/treeconf/treeconf/states/autocomplete"
)

// State is the interface for application state.
type State interface {
	Ctx() (context.Context, context.CancelFunc)
	Label() string
	Process(line string) (State, error)
	Close()
	SetNext(state State)
	NextState() State
	Suggestions(input string) map[string]string
	SetupCommands()
	IsEnding() bool
}

// SetupFunc function type for setup commands.
type SetupFunc func()

// CmdState wraps a token tree as State interface.
type CmdState struct {
	label     string
	root      *framework.Token
	builtins  *framework.Token
	nextState State
	signal    <-chan os.Signal

	format framework.Format
	out    io.Writer
	logger *zap.Logger
	config *configs.Config

	lastRes framework.Result
	lastErr error

	SetupFn SetupFunc
}

// StateOption setup option for CmdState.
type StateOption func(*CmdState)

// WithFormat sets the output format of command results.
func WithFormat(format framework.Format) StateOption {
	return func(s *CmdState) {
		s.format = format
	}
}

// WithOutput redirects results and diagnostics, Stdout by default.
func WithOutput(w io.Writer) StateOption {
	return func(s *CmdState) {
		s.out = w
	}
}

// WithStateLogger sets the zap logger used for debug records.
func WithStateLogger(logger *zap.Logger) StateOption {
	return func(s *CmdState) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfig enables the config built-in commands on config.
func WithConfig(config *configs.Config) StateOption {
	return func(s *CmdState) {
		s.config = config
	}
}

// WithLabel overrides the prompt label, root name by default.
func WithLabel(label string) StateOption {
	return func(s *CmdState) {
		s.label = label
	}
}

// NewCmdState returns a CmdState processing input lines with root.
// Built-in commands (help, usage, tokens, config, exit, quit) answer the
// words the tree does not know, the tree itself is left untouched.
func NewCmdState(root *framework.Token, opts ...StateOption) *CmdState {
	s := &CmdState{
		label:  root.Name(),
		root:   root,
		out:    Stdout,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.builtins = builtinCommands(s)
	return s
}

// Root returns the token tree processed by this state.
func (s *CmdState) Root() *framework.Token {
	return s.root
}

// SetLabel updates label value.
func (s *CmdState) SetLabel(label string) {
	s.label = label
}

// Label returns the display label for current cli.
func (s *CmdState) Label() string {
	return s.label
}

// Ctx returns context which bind to sigint handler.
func (s *CmdState) Ctx() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		select {
		case <-s.signal:
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// SetupCommands perform command setup & reset.
func (s *CmdState) SetupCommands() {
	if s.SetupFn != nil {
		s.SetupFn()
	}
}

// Suggestions returns the candidates of the tree and of the built-in commands.
func (s *CmdState) Suggestions(input string) map[string]string {
	result := autocomplete.SuggestInputTokens(input, s.root)
	for k, v := range autocomplete.SuggestInputTokens(input, s.builtins) {
		if _, ok := result[k]; !ok {
			result[k] = v
		}
	}
	return result
}

// Process is the main entry for processing command.
func (s *CmdState) Process(line string) (State, error) {
	args, err := shellquote.Split(line)
	if err != nil {
		colorParseErr.Fprintln(s.out, errors.Wrap(err, "invalid command line").Error())
		s.lastRes, s.lastErr = framework.Result{Code: framework.FailureCode}, err
		return s, nil
	}
	if len(args) == 0 {
		return s, nil
	}

	signal.Reset(syscall.SIGINT)
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT)
	s.signal = c
	defer signal.Reset(syscall.SIGINT)

	ctx, cancel := s.Ctx()
	defer cancel()

	m, res, err := s.target(args[0]).Execute(ctx, args)
	s.lastRes, s.lastErr = res, err
	s.logger.Debug("process command",
		zap.String("line", line),
		zap.Stringer("outcome", framework.Classify(err)),
		zap.Int("code", res.Code),
		zap.String("history", m.History()),
	)
	PrintOutcome(s.out, res, err, s.format)

	if s.nextState != nil {
		nextState := s.nextState
		s.nextState = nil
		if nextState.IsEnding() {
			return nextState, common.ExitErr
		}
		return nextState, nil
	}
	return s, nil
}

// target picks the tree the first word belongs to.
func (s *CmdState) target(first string) *framework.Token {
	if s.root.FindChild(first) == nil && s.builtins.FindChild(first) != nil {
		return s.builtins
	}
	return s.root
}

// LastOutcome returns the outcome of the latest processed line.
func (s *CmdState) LastOutcome() (framework.Result, error) {
	return s.lastRes, s.lastErr
}

// LastExitCode maps the latest outcome to a process exit code.
func (s *CmdState) LastExitCode() int {
	return framework.ExitCode(s.lastRes, s.lastErr)
}

// SetNext simple method to set next state.
func (s *CmdState) SetNext(state State) {
	s.nextState = state
}

// NextState returns the pending next state, if any.
func (s *CmdState) NextState() State {
	return s.nextState
}

// Close empty method to implement State.
func (s *CmdState) Close() {}

// IsEnding checks state is ending state.
func (s *CmdState) IsEnding() bool { return false }
