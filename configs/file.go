package configs

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Keys of the items stored in treeconf.yaml.
const (
	KeyWorkspacePath = "WorkspacePath"
	KeyOutputFormat  = "OutputFormat"
	KeyTree          = "Tree"
	KeyLogLevel      = "LogLevel"
)

// Keys returns the keys of the items stored in treeconf.yaml.
func Keys() []string {
	return []string{KeyWorkspacePath, KeyOutputFormat, KeyTree, KeyLogLevel}
}

var _ ConfigSource = (*fileConfigSource)(nil)

// fileConfigSource reads and writes the items of treeconf.yaml.
type fileConfigSource struct {
	config *Config
}

func (f *fileConfigSource) Name() string {
	return "file"
}

func (f *fileConfigSource) field(key string) (*string, error) {
	switch key {
	case KeyWorkspacePath:
		return &f.config.WorkspacePath, nil
	case KeyOutputFormat:
		return &f.config.OutputFormat, nil
	case KeyTree:
		return &f.config.Tree, nil
	case KeyLogLevel:
		return &f.config.LogLevel, nil
	default:
		return nil, errors.Wrapf(ErrConfigNotFound, "unknown config key %q", key)
	}
}

func (f *fileConfigSource) Get(key string) (string, error) {
	p, err := f.field(key)
	if err != nil {
		return "", err
	}
	return *p, nil
}

func (f *fileConfigSource) Set(key, value string) error {
	p, err := f.field(key)
	if err != nil {
		return err
	}
	*p = value
	return f.config.save()
}

// Source returns the config source called name, env or file.
func (c *Config) Source(name string) (ConfigSource, error) {
	switch name {
	case "", "env":
		return envConfigSource{}, nil
	case "file":
		return &fileConfigSource{config: c}, nil
	default:
		return nil, errors.Newf("unknown config source %q", name)
	}
}

// SetConfig sets key to value in the named source.
func (c *Config) SetConfig(source, key, value string) error {
	src, err := c.Source(source)
	if err != nil {
		return err
	}
	if err := src.Set(key, value); err != nil {
		return errors.Wrapf(err, "failed to set %s in %s source", key, src.Name())
	}
	c.Logger().Info("config updated", zap.String("source", src.Name()), zap.String("key", key))
	return nil
}

// GetConfig reads key from the named source.
func (c *Config) GetConfig(source, key string) (string, error) {
	src, err := c.Source(source)
	if err != nil {
		return "", err
	}
	return src.Get(key)
}
