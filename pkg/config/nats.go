package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultNATSTimeout = 5 * time.Second
	defaultNATSStream  = "CATALOG"
)

// NATSConfig enables publishing catalog events to a JetStream stream.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Stream  string        `koanf:"stream"`
}

// String returns a string representation of the NATS configuration.
func (c *NATSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- NATS ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  url: %s\n", c.Url))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  stream: %s\n", c.Stream))
	return b.String()
}

// Validate fills in the default timeout and stream when NATS is enabled.
// Stream names cannot contain whitespace, '.', '*' or '>'.
func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("nats dial timeout cannot be negative")
	}
	if c.Timeout == 0 {
		c.Timeout = defaultNATSTimeout
	}
	if c.Stream == "" {
		c.Stream = defaultNATSStream
	}
	if strings.ContainsAny(c.Stream, " \t\n.*>") {
		return fmt.Errorf("invalid NATS stream name %q", c.Stream)
	}
	return nil
}
