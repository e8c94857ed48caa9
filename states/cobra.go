package states

import (
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/treeconf/treeconf/framework"
	"github.com/treeconf/treeconf/states/autocomplete"
)

// HostOption setup option for NewCobraCommand.
type HostOption func(*hostOption)

type hostOption struct {
	use       string
	format    framework.Format
	out       io.Writer
	onOutcome func(framework.Result, error)
}

// WithUse overrides the command name, root name by default.
func WithUse(use string) HostOption {
	return func(opt *hostOption) {
		opt.use = use
	}
}

// WithHostFormat sets the result output format.
func WithHostFormat(format framework.Format) HostOption {
	return func(opt *hostOption) {
		opt.format = format
	}
}

// WithHostOutput overrides the command output writer.
func WithHostOutput(w io.Writer) HostOption {
	return func(opt *hostOption) {
		opt.out = w
	}
}

// WithOutcome registers fn to receive the outcome of every run.
func WithOutcome(fn func(framework.Result, error)) HostOption {
	return func(opt *hostOption) {
		opt.onOutcome = fn
	}
}

// NewCobraCommand returns a cobra command matching its raw arguments against
// root. Flag parsing is disabled so flag tokens reach the matcher, and shell
// completion is served by walking the tree.
func NewCobraCommand(root *framework.Token, opts ...HostOption) *cobra.Command {
	opt := &hostOption{use: root.Name()}
	for _, o := range opts {
		o(opt)
	}

	cmd := &cobra.Command{
		Use:                opt.use,
		Short:              root.Help(),
		Long:               root.Usage(true),
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opt.out
			if out == nil {
				out = cmd.OutOrStdout()
			}
			res, err := root.Parse(cmd.Context(), args)
			PrintOutcome(out, res, err, opt.format)
			if opt.onOutcome != nil {
				opt.onOutcome(res, err)
			}
			return err
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			suggestions := autocomplete.SuggestArgs(root, args, toComplete)
			result := make([]string, 0, len(suggestions))
			for k, v := range suggestions {
				if v == "" {
					result = append(result, k)
					continue
				}
				result = append(result, k+"\t"+v)
			}
			sort.Strings(result)
			return result, cobra.ShellCompDirectiveNoFileComp
		},
	}
	return cmd
}
