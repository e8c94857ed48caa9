package configs

// Resolve returns the effective value of a config key: a non-empty
// environment override first, then the config file. Keys outside the
// config file resolve to "".
func (c *Config) Resolve(key string) string {
	if _, ok := envNames[key]; !ok {
		return ""
	}
	if v, err := (envConfigSource{}).Get(key); err == nil && v != "" {
		return v
	}
	if c == nil {
		return ""
	}
	v, err := (&fileConfigSource{config: c}).Get(key)
	if err != nil {
		return ""
	}
	return v
}

// GetGlobalOutputFormat returns the output format name, "" means the default format.
func (c *Config) GetGlobalOutputFormat() string {
	return c.Resolve(KeyOutputFormat)
}

// GetTree returns the name of the lighting tree to start with.
func (c *Config) GetTree() string {
	return c.Resolve(KeyTree)
}

// GetLogLevel returns the configured log level name.
func (c *Config) GetLogLevel() string {
	return c.Resolve(KeyLogLevel)
}
