package configs

import (
	"os"

	"github.com/cockroachdb/errors"
)

const envPrefix = "TREECONF_"

// EnvOutputFormat overrides the OutputFormat item of the config file.
const EnvOutputFormat = envPrefix + "OUTPUT_FORMAT"

// envNames maps config keys to the environment variables overriding them.
var envNames = map[string]string{
	KeyWorkspacePath: envPrefix + "WORKSPACE_PATH",
	KeyOutputFormat:  EnvOutputFormat,
	KeyTree:          envPrefix + "TREE",
	KeyLogLevel:      envPrefix + "LOG_LEVEL",
}

var _ ConfigSource = envConfigSource{}

// envConfigSource reads the process environment. Config keys resolve to
// their TREECONF_ variable, other keys name the variable verbatim.
type envConfigSource struct{}

func envName(key string) string {
	if name, ok := envNames[key]; ok {
		return name
	}
	return key
}

func (envConfigSource) Name() string {
	return "env"
}

func (envConfigSource) Get(key string) (string, error) {
	name := envName(key)
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", errors.Wrapf(ErrConfigNotFound, "environment variable %s", name)
	}
	return value, nil
}

func (envConfigSource) Set(key, value string) error {
	return os.Setenv(envName(key), value)
}
