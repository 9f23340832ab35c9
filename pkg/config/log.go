package config

import (
	"fmt"
	"slices"
	"strings"
)

const defaultLogLevel = "info"

var logLevels = []string{"debug", "info", "warn", "error"}

type LogConfig struct {
	Level string `koanf:"level"`
}

// String returns a string representation of the log configuration.
func (c *LogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Log ---\n")
	b.WriteString(fmt.Sprintf("  level: %s\n", c.Level))
	return b.String()
}

// Validate normalizes the level to lower case, defaulting to info.
func (c *LogConfig) Validate() error {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	if c.Level == "" {
		c.Level = defaultLogLevel
	}
	if !slices.Contains(logLevels, c.Level) {
		return fmt.Errorf("log level %q is not one of %s", c.Level, strings.Join(logLevels, ", "))
	}
	return nil
}
