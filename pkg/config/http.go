package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultReadTimeout       = 5 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultReadHeaderTimeout = 2 * time.Second
)

// HTTPConfig configures the public API listener.
type HTTPConfig struct {
	Port           int `koanf:"port"`
	MaxHeaderBytes int `koanf:"maxheaderbytes"`
	Timeout        struct {
		Read       time.Duration `koanf:"read"`
		Write      time.Duration `koanf:"write"`
		Idle       time.Duration `koanf:"idle"`
		ReadHeader time.Duration `koanf:"readheader"`
	} `koanf:"timeout"`
}

// String returns a string representation of the HTTP server configuration.
func (c *HTTPConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Server ---\n")
	b.WriteString(fmt.Sprintf("  port: %d\n", c.Port))
	b.WriteString(fmt.Sprintf("  maxheaderbytes: %d\n", c.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  timeout.read: %v\n", c.Timeout.Read))
	b.WriteString(fmt.Sprintf("  timeout.write: %v\n", c.Timeout.Write))
	b.WriteString(fmt.Sprintf("  timeout.idle: %v\n", c.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  timeout.readheader: %v\n", c.Timeout.ReadHeader))
	return b.String()
}

// Validate checks the port and fills zero limits with defaults.
// Negative timeouts are rejected.
func (c *HTTPConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid HTTP server port: %d", c.Port)
	}
	if c.MaxHeaderBytes < 0 {
		return fmt.Errorf("invalid HTTP server max header bytes: %d", c.MaxHeaderBytes)
	}
	if c.MaxHeaderBytes == 0 {
		c.MaxHeaderBytes = http.DefaultMaxHeaderBytes
	}
	timeouts := []struct {
		name     string
		value    *time.Duration
		fallback time.Duration
	}{
		{"read", &c.Timeout.Read, defaultReadTimeout},
		{"write", &c.Timeout.Write, defaultWriteTimeout},
		{"idle", &c.Timeout.Idle, defaultIdleTimeout},
		{"read header", &c.Timeout.ReadHeader, defaultReadHeaderTimeout},
	}
	for _, t := range timeouts {
		if *t.value < 0 {
			return fmt.Errorf("invalid HTTP server %s timeout: %v", t.name, *t.value)
		}
		if *t.value == 0 {
			*t.value = t.fallback
		}
	}
	return nil
}
