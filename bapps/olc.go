package bapps

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/treeconf/treeconf/common"
	"github.com/treeconf/treeconf/states"
)

// OlcApp runs one line commands.
type OlcApp struct {
	script   string
	logger   *zap.Logger
	exitCode int
}

type olcCmd struct {
	cmd   string
	muted bool
}

// NewOlcApp returns a BApp running the comma separated commands of script.
func NewOlcApp(script string, opts ...AppOption) *OlcApp {
	opt := newAppOption(opts)
	return &OlcApp{
		script: script,
		logger: opt.logger,
	}
}

func (a *OlcApp) Run(start states.State) {
	app := start
	cmds := a.parseScripts(a.script)
	var err error
	for _, cmd := range cmds {
		restore := func() {}
		if cmd.muted {
			restore = a.muteStdout()
		}
		app, err = app.Process(cmd.cmd)
		restore()
		a.exitCode = lastExitCode(app)
		a.logger.Debug("olc command done", zap.String("cmd", cmd.cmd), zap.Int("exitCode", a.exitCode))
		if errors.Is(err, common.ExitErr) {
			return
		}
		if err != nil {
			fmt.Println(err.Error())
			return
		}
		// stop at the first failing command
		if a.exitCode != 0 {
			return
		}
	}
}

// muteStdout points os.Stdout at the null device until the returned func
// restores it. Output stays visible when the null device cannot be opened.
func (a *OlcApp) muteStdout() func() {
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		a.logger.Warn("failed to mute command output", zap.Error(err))
		return func() {}
	}
	stdout := os.Stdout
	os.Stdout = devNull
	return func() {
		os.Stdout = stdout
		devNull.Close()
	}
}

// ExitCode returns the exit code of the last command run.
func (a *OlcApp) ExitCode() int {
	return a.exitCode
}

func (a *OlcApp) parseScripts(script string) []olcCmd {
	parts := strings.Split(script, ",")
	parts = lo.Filter(parts, func(part string, _ int) bool {
		return strings.TrimSpace(part) != ""
	})
	return lo.Map(parts, func(raw string, _ int) olcCmd {
		muted := false
		cmd := strings.TrimSpace(raw)
		// mute cmd using #[command]
		if strings.HasPrefix(cmd, "#") {
			muted = true
			cmd = cmd[1:]
		}
		return olcCmd{
			muted: muted,
			cmd:   cmd,
		}
	})
}
