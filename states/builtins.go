package states

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/treeconf/treeconf/configs"
	"github.com/treeconf/treeconf/framework"
	"github.com/treeconf/treeconf/states/autocomplete"
)

// Value suggesters of the config command arguments.
const (
	configSourceSuggester = "config-sources"
	configKeySuggester    = "config-keys"
)

func init() {
	autocomplete.RegisterValueSuggester(configSourceSuggester, autocomplete.ValueSuggestFunc(func(string) []string {
		return []string{"env", "file"}
	}))
	autocomplete.RegisterValueSuggester(configKeySuggester, autocomplete.ValueSuggestFunc(func(string) []string {
		return configs.Keys()
	}))
}

// builtinCommands returns the commands every interactive state answers to,
// rooted at a token named like the state tree so histories read the same.
func builtinCommands(s *CmdState) *framework.Token {
	root := framework.NewToken(s.root.Name())
	root.Push(framework.NewCommand("help", func(context.Context, *framework.Match) (framework.Result, error) {
		return framework.NewResult(framework.SuccessCode, s.root.Usage(true)), nil
	}, framework.WithHelp("Print the whole command tree with help")))
	root.Push(framework.NewCommand("usage", func(context.Context, *framework.Match) (framework.Result, error) {
		return framework.NewResult(framework.SuccessCode, s.root.Completions(false)), nil
	}, framework.WithHelp("Print the next accepted words")))
	root.Push(framework.NewCommand("tokens", func(context.Context, *framework.Match) (framework.Result, error) {
		return framework.NewResult(framework.SuccessCode, renderTokens(s.root)), nil
	}, framework.WithHelp("List every token of the command tree")))
	if s.config != nil {
		root.Push(configCommands(s.config))
	}
	root.Push(newExitCommand("exit", s))
	root.Push(newExitCommand("quit", s))
	return root
}

// configCommands builds config { set <source> <key> <value> | get <source> <key> }.
// Values are completed as folders, the path of WorkspacePath being the one
// worth completing.
func configCommands(config *configs.Config) *framework.Token {
	source := newSourceArgument()
	key := newKeyArgument()
	value := framework.NewArgument("<value>",
		framework.WithHelp("Config value"),
		framework.WithSuggester(autocomplete.DirectorySuggester))
	source.Push(key.Push(value))
	set := framework.NewCommand("set", func(_ context.Context, m *framework.Match) (framework.Result, error) {
		if err := config.SetConfig(m.Text(source), m.Text(key), m.Text(value)); err != nil {
			return framework.Result{}, err
		}
		return framework.NewResult(framework.SuccessCode, fmt.Sprintf("%s set", m.Text(key))), nil
	}, framework.WithHelp("Set a config item"))
	set.Push(source)

	getSource := newSourceArgument()
	getKey := newKeyArgument()
	getSource.Push(getKey)
	get := framework.NewCommand("get", func(_ context.Context, m *framework.Match) (framework.Result, error) {
		v, err := config.GetConfig(m.Text(getSource), m.Text(getKey))
		if err != nil {
			return framework.Result{}, err
		}
		return framework.NewResult(framework.SuccessCode, v), nil
	}, framework.WithHelp("Print a config item"))
	get.Push(getSource)

	return framework.NewToken("config", framework.WithHelp("Read or update configuration")).Push(set).Push(get)
}

func newSourceArgument() *framework.Token {
	return framework.NewArgument("<source>",
		framework.WithHelp("Config source, env or file"),
		framework.WithSuggester(configSourceSuggester))
}

func newKeyArgument() *framework.Token {
	return framework.NewArgument("<key>",
		framework.WithHelp("Config key"),
		framework.WithSuggester(configKeySuggester))
}

// renderTokens renders every node below root as a table.
func renderTokens(root *framework.Token) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Path", "Kind", "Terminal", "Help"})
	root.Walk(func(node *framework.Token, path []string) {
		t.AppendRow(table.Row{strings.Join(path, " "), node.Kind().String(), node.MayTerminate(), node.Help()})
	})
	return t.Render()
}
