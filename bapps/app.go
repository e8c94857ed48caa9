package bapps

import (
	"go.uber.org/zap"

	"github.com/treeconf/treeconf/states"
)

// BApp interface for treeconf application
type BApp interface {
	Run(states.State)
}

// AppOption application setup option function.
type AppOption func(*appOption)

type appOption struct {
	logger *zap.Logger
}

// WithLogger returns AppOption to setup application logger.
func WithLogger(logger *zap.Logger) AppOption {
	return func(opt *appOption) {
		opt.logger = logger
	}
}

func newAppOption(opts []AppOption) *appOption {
	opt := &appOption{}
	for _, o := range opts {
		o(opt)
	}
	if opt.logger == nil {
		opt.logger = zap.NewNop()
	}
	return opt
}

// exitCoder is implemented by states reporting the outcome of the last line.
type exitCoder interface {
	LastExitCode() int
}

func lastExitCode(s states.State) int {
	if ec, ok := s.(exitCoder); ok {
		return ec.LastExitCode()
	}
	return 0
}
