package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/treeconf/treeconf/bapps"
	"github.com/treeconf/treeconf/configs"
	"github.com/treeconf/treeconf/framework"
	"github.com/treeconf/treeconf/states"
	"github.com/treeconf/treeconf/version"
)

const debugLogFile = "treeconf_debug.log"

type options struct {
	oneLineCommand string
	simple         bool
	restServer     bool
	webPort        int
	printVersion   bool
	tree           string
	configPath     string
	logLevel       string
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	return executeWith(args, os.Stdout)
}

func executeWith(args []string, out io.Writer) int {
	exitCode := 0
	opts := &options{}
	root := newRootCommand(opts, &exitCode)
	root.SetArgs(args)
	root.SetOut(out)
	if err := root.Execute(); err != nil && exitCode == 0 {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}
	return exitCode
}

func newRootCommand(opts *options, exitCode *int) *cobra.Command {
	root := &cobra.Command{
		Use:           "treeconf",
		Short:         "Hierarchical command line grammar playground",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(opts, exitCode)
		},
	}

	bindSharedFlags(root.PersistentFlags(), opts)
	bindAppFlags(root.Flags(), opts)

	root.AddCommand(newExecCommand(opts, exitCode))
	return root
}

// bindSharedFlags registers the flags exec and the interactive apps share.
func bindSharedFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVar(&opts.tree, "tree", "", fmt.Sprintf("lighting tree shape, one of %v", states.TreeShapes()))
	fs.StringVar(&opts.configPath, "config", configs.DefaultConfigPath, "config folder path")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level, debug|info|warn|error")
}

func bindAppFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVar(&opts.oneLineCommand, "olc", "", "one line command execution mode")
	fs.BoolVar(&opts.simple, "simple", false, "use simple ui without suggestion and history")
	fs.BoolVar(&opts.restServer, "rest", false, "start rest server")
	fs.IntVar(&opts.webPort, "port", 8002, "listening port for web server")
	fs.BoolVar(&opts.printVersion, "version", false, "print version")
	fs.SortFlags = false
}

// newExecCommand runs one parse of the args after "--" and exits with the
// outcome exit code.
func newExecCommand(opts *options, exitCode *int) *cobra.Command {
	hostFor := func() (*cobra.Command, error) {
		config := loadConfig(opts.configPath, zap.NewNop())
		tree, err := states.StartTree(config, opts.tree)
		if err != nil {
			return nil, err
		}
		return states.NewCobraCommand(tree,
			states.WithUse("exec"),
			states.WithHostFormat(framework.NameFormat(config.GetGlobalOutputFormat())),
			states.WithOutcome(func(res framework.Result, err error) {
				*exitCode = framework.ExitCode(res, err)
			}),
		), nil
	}

	return &cobra.Command{
		Use:   "exec -- [words...]",
		Short: "Parse the words once with the lighting tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := hostFor()
			if err != nil {
				return err
			}
			// nil args make cobra fall back to os.Args
			if args == nil {
				args = []string{}
			}
			host.SetArgs(args)
			host.SetOut(cmd.OutOrStdout())
			// outcome already printed and mapped to the exit code
			_ = host.ExecuteContext(cmd.Context())
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			host, err := hostFor()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return host.ValidArgsFunction(host, args, toComplete)
		},
	}
}

func runApp(opts *options, exitCode *int) error {
	if opts.printVersion {
		fmt.Println(version.Get().String())
		return nil
	}

	config := loadConfig(opts.configPath, zap.NewNop())
	level := opts.logLevel
	if level == "" {
		level = config.GetLogLevel()
	}
	logger, closeLog, err := newLogger(opts, level)
	if err != nil {
		return err
	}
	defer closeLog()
	config.SetLogger(logger)
	logger.Debug("starting treeconf", zap.String("tree", opts.tree), zap.String("logLevel", level))

	start, err := states.Start(config, opts.tree)
	if err != nil {
		return err
	}

	switch {
	case opts.simple:
		bapps.NewSimpleApp(bapps.WithLogger(logger)).Run(start)
	case len(opts.oneLineCommand) > 0:
		app := bapps.NewOlcApp(opts.oneLineCommand, bapps.WithLogger(logger))
		app.Run(start)
		*exitCode = app.ExitCode()
	case opts.restServer:
		bapps.NewWebServerApp(opts.webPort, config, bapps.WithLogger(logger)).Run(start)
	default:
		bapps.NewPromptApp(config, bapps.WithLogger(logger)).Run(start)
	}
	return nil
}

func loadConfig(path string, logger *zap.Logger) *configs.Config {
	config, err := configs.NewConfig(path)
	if err != nil {
		// run by default, just printing warning.
		fmt.Println("[WARN] load config file failed, running in default setting", err.Error())
	}
	config.SetLogger(logger)
	return config
}

// newLogger builds the zap logger of the selected mode, the interactive
// prompt logs to a file so the terminal is not disturbed.
func newLogger(opts *options, levelName string) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if levelName != "" {
		lvl, err := zapcore.ParseLevel(levelName)
		if err != nil {
			return nil, nil, errors.Wrap(err, "invalid log level")
		}
		level = lvl
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	switch {
	case opts.restServer:
		cfg.OutputPaths = []string{"stderr"}
	case opts.simple || len(opts.oneLineCommand) > 0:
		if levelName == "" {
			return zap.NewNop(), func() {}, nil
		}
		cfg.OutputPaths = []string{"stderr"}
	default:
		cfg.OutputPaths = []string{debugLogFile}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build logger")
	}
	return logger, func() { _ = logger.Sync() }, nil
}
