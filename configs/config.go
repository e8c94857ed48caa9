package configs

import (
	"os"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	configFileName   = `treeconf.yaml`
	defaultWorkspace = `treeconf_workspace`
	// DefaultConfigPath is the config folder used when none is provided.
	DefaultConfigPath = `.treeconf`
	// DefaultTree is the lighting tree shape used when none is configured.
	DefaultTree = `flat`
)

var (
	errConfigPathNotExist = errors.New("config path not exist")
	errConfigPathIsFile   = errors.New("config path is file")
)

// Config stores treeconf config items.
type Config struct {
	// treeconf configuration folder path
	// default $PWD/.treeconf
	ConfigPath string `yaml:"-"`
	// workspace path for history, default $PWD/treeconf_workspace
	WorkspacePath string `yaml:"WorkspacePath"`
	// OutputFormat is the result format name, see framework.NameFormat
	OutputFormat string `yaml:"OutputFormat,omitempty"`
	// Tree is the lighting tree shape served by default
	Tree string `yaml:"Tree,omitempty"`
	// LogLevel is the zap level of the debug log
	LogLevel string `yaml:"LogLevel,omitempty"`

	logger *zap.Logger
}

func (c *Config) load() error {
	err := c.checkConfigPath()
	if err != nil {
		return err
	}

	bs, err := os.ReadFile(c.getConfigPath())
	// folder without config file, treat as first run
	if os.IsNotExist(err) {
		return errConfigPathNotExist
	}
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}

	return errors.Wrap(yaml.Unmarshal(bs, c), "failed to parse config file")
}

func (c *Config) getConfigPath() string {
	return path.Join(c.ConfigPath, configFileName)
}

// checkConfigPath exists and is a directory.
func (c *Config) checkConfigPath() error {
	info, err := os.Stat(c.ConfigPath)
	if err != nil {
		// not exist, return specified type to handle
		if os.IsNotExist(err) {
			return errConfigPathNotExist
		}
		return err
	}
	if !info.IsDir() {
		return errors.Wrapf(errConfigPathIsFile, "%s is not a directory", c.ConfigPath)
	}

	return nil
}

func (c *Config) createDefault() error {
	err := os.MkdirAll(c.ConfigPath, os.ModePerm)
	if err != nil {
		return errors.Wrap(err, "failed to create config path")
	}

	// setup default value
	c.WorkspacePath = defaultWorkspace
	c.Tree = DefaultTree

	return c.save()
}

func (c *Config) save() error {
	bs, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	return errors.Wrap(os.WriteFile(c.getConfigPath(), bs, 0o644), "failed to write config file")
}

// SetLogger sets the logger used to report config events.
func (c *Config) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// Logger returns the config logger, a no-op logger if none was set.
func (c *Config) Logger() *zap.Logger {
	if c == nil || c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

// NewConfig loads the config folder at configPath, "~" is expanded.
// Missing folder is created with default values.
func NewConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	expanded, err := homedir.Expand(configPath)
	if err != nil {
		return &Config{ConfigPath: configPath, WorkspacePath: defaultWorkspace, Tree: DefaultTree}, errors.Wrap(err, "failed to expand config path")
	}
	config := &Config{
		ConfigPath: expanded,
	}
	err = config.load()
	// config path not exist, may first time to run
	if errors.Is(err, errConfigPathNotExist) {
		return config, config.createDefault()
	}
	if config.WorkspacePath == "" {
		config.WorkspacePath = defaultWorkspace
	}

	return config, err
}
