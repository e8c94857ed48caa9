package bapps

import (
	"github.com/cockroachdb/errors"
	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/treeconf/treeconf/common"
	"github.com/treeconf/treeconf/states"
)

// simpleApp wraps promptui as BApp.
type simpleApp struct {
	logger *zap.Logger
}

// NewSimpleApp returns a BApp reading lines with promptui.
func NewSimpleApp(opts ...AppOption) BApp {
	opt := newAppOption(opts)
	return &simpleApp{logger: opt.logger}
}

// Run starts treeconf with promptui. (disable suggestion and history)
func (a *simpleApp) Run(start states.State) {
	app := start
	for {
		p := promptui.Prompt{
			Label: app.Label(),
			Validate: func(input string) error {
				return nil
			},
		}

		line, err := p.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		if err != nil {
			a.logger.Warn("prompt failed", zap.Error(err))
			continue
		}
		app, err = app.Process(line)
		if errors.Is(err, common.ExitErr) {
			return
		}
		if app.IsEnding() {
			return
		}
	}
}
