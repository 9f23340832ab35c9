// Package configloader assembles a service configuration from YAML, .env and the environment.
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	dotEnvFile        = ".env"
)

// Validator checks a loaded configuration and may fill in defaults.
type Validator interface {
	Validate() error
}

// Load builds the configuration for serviceName from, in increasing priority:
// a YAML file, a .env file and the process environment.
//
// The YAML file defaults to config.yaml in the working directory and can be
// overridden with <SERVICE>_CONFIG_FILE. Environment keys are prefixed with
// <SERVICE>_ and map to config paths by replacing "_" with ".", so
// STOREFRONT_DATABASE_URL sets database.url. Missing files are skipped.
func Load[T Validator](serviceName string) (T, error) {
	var cfg T
	k := koanf.New(".")
	prefix := strings.ToUpper(serviceName) + "_"

	if err := loadYAML(k, configFile(prefix)); err != nil {
		return cfg, err
	}
	if err := loadDotEnv(k, prefix); err != nil {
		return cfg, err
	}
	if err := k.Load(env.Provider(prefix, ".", keyMapper(prefix)), nil); err != nil {
		return cfg, fmt.Errorf("error loading environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func configFile(prefix string) string {
	if path := os.Getenv(prefix + "CONFIG_FILE"); path != "" {
		return path
	}
	return defaultConfigFile
}

func loadYAML(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading YAML config file %q: %w", path, err)
	}
	return nil
}

// loadDotEnv applies the prefixed keys of .env without exporting them to the process.
func loadDotEnv(k *koanf.Koanf, prefix string) error {
	values, err := godotenv.Read(dotEnvFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading %s: %w", dotEnvFile, err)
	}
	toKey := keyMapper(prefix)
	envMap := make(map[string]any, len(values))
	for key, value := range values {
		if strings.HasPrefix(strings.ToUpper(key), prefix) {
			envMap[toKey(key)] = value
		}
	}
	if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
		return fmt.Errorf("error loading %s: %w", dotEnvFile, err)
	}
	return nil
}

// keyMapper turns STOREFRONT_IDP_JWKSURL into idp.jwksurl.
func keyMapper(prefix string) func(string) string {
	lowerPrefix := strings.ToLower(prefix)
	return func(key string) string {
		key = strings.TrimPrefix(strings.ToLower(key), lowerPrefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}
