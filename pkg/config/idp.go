package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultIdPAlgorithm    = "RS256"
	defaultIdPMinInterval  = 10 * time.Minute
	defaultIdPFetchTimeout = 5 * time.Second
	defaultIdPMissCooldown = 30 * time.Second
	wellKnownJWKSPath      = ".well-known/jwks.json"
)

// IdP describes the identity provider that issues bearer tokens.
type IdP struct {
	Issuer       string        `koanf:"issuer"`
	JwksURL      string        `koanf:"jwksurl"`
	Audience     string        `koanf:"audience"`
	Algorithm    string        `koanf:"algorithm"`
	MinInterval  time.Duration `koanf:"mininterval"`
	FetchTimeout time.Duration `koanf:"fetchtimeout"`
	// MissCooldown bounds how often an unknown key id may force a JWKS refetch.
	MissCooldown time.Duration `koanf:"misscooldown"`
}

// String returns a string representation of the IdP configuration.
func (c *IdP) String() string {
	var b strings.Builder
	b.WriteString("\n--- Identity Provider ---\n")
	b.WriteString(fmt.Sprintf("  issuer: %s\n", c.Issuer))
	b.WriteString(fmt.Sprintf("  jwksurl: %s\n", c.JwksURL))
	b.WriteString(fmt.Sprintf("  audience: %s\n", c.Audience))
	b.WriteString(fmt.Sprintf("  algorithm: %s\n", c.Algorithm))
	b.WriteString(fmt.Sprintf("  mininterval: %s\n", c.MinInterval))
	b.WriteString(fmt.Sprintf("  fetchtimeout: %s\n", c.FetchTimeout))
	b.WriteString(fmt.Sprintf("  misscooldown: %s\n", c.MissCooldown))
	return b.String()
}

// Validate checks the IdP settings and fills in defaults.
// An empty JWKS URL is derived from the issuer using the well-known path.
func (c *IdP) Validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("IdP issuer cannot be empty")
	}
	if c.Audience == "" {
		return fmt.Errorf("IdP audience cannot be empty")
	}
	if c.JwksURL == "" {
		c.JwksURL = strings.TrimSuffix(c.Issuer, "/") + "/" + wellKnownJWKSPath
	}
	if c.Algorithm == "" {
		c.Algorithm = defaultIdPAlgorithm
	}
	if c.MinInterval < 0 {
		return fmt.Errorf("IdP minimum interval cannot be negative")
	}
	if c.MinInterval == 0 {
		c.MinInterval = defaultIdPMinInterval
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultIdPFetchTimeout
	}
	if c.MissCooldown < 0 {
		return fmt.Errorf("IdP miss cooldown cannot be negative")
	}
	if c.MissCooldown == 0 {
		c.MissCooldown = defaultIdPMissCooldown
	}
	return nil
}
