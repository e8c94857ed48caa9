package bapps

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/treeconf/treeconf/common"
	"github.com/treeconf/treeconf/configs"
	"github.com/treeconf/treeconf/history"
	"github.com/treeconf/treeconf/states"
)

// PromptApp wraps go-prompt as application.
type PromptApp struct {
	exited          bool
	currentState    states.State
	suggestHistory  bool
	historyHelper   *history.Helper
	logger          *zap.Logger
	prompt          *prompt.Prompt
	config          *configs.Config
}

// NewPromptApp returns the interactive application with suggestions and
// history kept in the config workspace.
func NewPromptApp(config *configs.Config, opts ...AppOption) BApp {
	opt := newAppOption(opts)

	config.SetLogger(opt.logger)

	// use workspace path to open&store history log
	hh := history.NewHistoryHelper(config.WorkspacePath, opt.logger)
	pa := &PromptApp{
		historyHelper: hh,
		config:        config,
		logger:        opt.logger,
	}

	historyItems := hh.List("")
	sort.Slice(historyItems, func(i, j int) bool {
		return historyItems[i].Ts < historyItems[j].Ts
	})

	p := prompt.New(pa.promptExecute, pa.completeInput,
		prompt.OptionTitle("treeconf"),
		prompt.OptionHistory(lo.Map(historyItems, func(hi history.Item, _ int) string { return hi.Cmd })),
		prompt.OptionLivePrefix(pa.livePrefix),
		prompt.OptionPrefixTextColor(prompt.Yellow),
		prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			// setup exit command
			in = strings.ToLower(strings.TrimSpace(in))
			return breakline && (in == "exit" || in == "quit")
		}),
		prompt.OptionAddKeyBind(prompt.KeyBind{
			Key: prompt.ControlR,
			Fn: func(buffer *prompt.Buffer) {
				pa.suggestHistory = !pa.suggestHistory
			},
		}),
		// restore cooked mode on exit
		prompt.OptionParser(newTTYParser()),
	)
	pa.prompt = p
	return pa
}

func (a *PromptApp) Run(start states.State) {
	a.currentState = start
	a.prompt.Run()
	a.historyHelper.Close()
}

// promptExecute actual execution logic entry.
func (a *PromptApp) promptExecute(in string) {
	in = strings.TrimSpace(in)

	restore := a.startPager()
	nextState, err := a.currentState.Process(in)
	restore()

	a.historyHelper.AddLog(in, lastExitCode(a.currentState))
	a.suggestHistory = false

	if errors.Is(err, common.ExitErr) {
		a.exit()
		return
	}
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	nextState.SetupCommands()
	a.currentState = nextState

	if a.currentState.IsEnding() {
		a.exit()
	}
}

func (a *PromptApp) exit() {
	fmt.Println("Bye!")
	a.exited = true
}

// startPager redirects os.Stdout to $PAGER when set, the returned func
// waits for the pager and restores os.Stdout.
func (a *PromptApp) startPager() func() {
	pager := os.Getenv("PAGER")
	if pager == "" {
		return func() {}
	}

	var args []string
	// refine less behavior
	if pager == "less" {
		args = append(args,
			"-F",        // don't page if content can fix in one screen
			"--no-init", // don't clean screen when start paging
		)
	}
	// #nosec args audit for less
	cmd := exec.Command(pager, args...)

	r, w, err := os.Pipe()
	if err != nil {
		a.logger.Warn("failed to create os pipeline", zap.Error(err))
		return func() {}
	}

	stdout := os.Stdout
	cmd.Stdin = r
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		fmt.Printf("[WARNING] Cannot use $PAGER(%s), set output back to stdout\n", pager)
		r.Close()
		w.Close()
		return func() {}
	}

	// Capture STDOUT for the Pager.
	os.Stdout = w
	done := make(chan struct{})
	go func() {
		defer close(done)
		// wait here in case of pager exit early
		err := cmd.Wait()
		a.logger.Debug("wait pager done", zap.String("pager", pager), zap.Error(err))
	}()

	return func() {
		w.Close()
		<-done
		r.Close()
		// recovery normal output
		os.Stdout = stdout
	}
}

// completeInput auto-complete logic entry.
func (a *PromptApp) completeInput(d prompt.Document) []prompt.Suggest {
	input := d.CurrentLineBeforeCursor()
	if a.suggestHistory {
		return a.historySuggestions(input)
	}
	if input == "" {
		return nil
	}
	return toPromptSuggests(a.currentState.Suggestions(input))
}

func toPromptSuggests(r map[string]string) []prompt.Suggest {
	s := make([]prompt.Suggest, 0, len(r))
	for text, desc := range r {
		s = append(s, prompt.Suggest{
			Text:        text,
			Description: desc,
		})
	}
	sort.Slice(s, func(i, j int) bool {
		return s[i].Text < s[j].Text
	})
	return s
}

// historySuggestions returns suggestion from command history.
func (a *PromptApp) historySuggestions(input string) []prompt.Suggest {
	items := a.historyHelper.List(input)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Ts > items[j].Ts
	})

	lastIdx := strings.LastIndex(input, " ") + 1
	return lo.Map(items, func(item history.Item, _ int) prompt.Suggest {
		t := time.Unix(item.Ts, 0)
		desc := t.Format("2006-01-02 15:04:05")
		if item.Code != 0 {
			desc = fmt.Sprintf("%s (exit %d)", desc, item.Code)
		}
		return prompt.Suggest{
			Text:        item.Cmd[lastIdx:],
			Description: desc,
		}
	})
}

// livePrefix implements dynamic change prefix.
func (a *PromptApp) livePrefix() (string, bool) {
	if a.exited {
		return "", false
	}
	return fmt.Sprintf("%s > ", a.currentState.Label()), true
}

// ttyParser wraps prompt.PosixParser, the terminal is left raw by
// go-prompt when os.Stdout was swapped during execution.
type ttyParser struct {
	*prompt.PosixParser
}

func newTTYParser() *ttyParser {
	return &ttyParser{PosixParser: prompt.NewStandardInputParser()}
}

// TearDown restores the terminal after stopping input.
func (p *ttyParser) TearDown() error {
	if err := p.PosixParser.TearDown(); err != nil {
		return errors.Wrap(err, "failed to tear down input parser")
	}
	rawModeOff := exec.Command("/bin/stty", "-raw", "echo")
	rawModeOff.Stdin = os.Stdin
	return errors.Wrap(rawModeOff.Run(), "failed to restore terminal mode")
}
