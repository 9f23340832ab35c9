package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`
	Database struct {
		URL     string        `koanf:"url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"database"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name        string
		yaml        string
		dotEnv      string
		env         map[string]string
		expectError bool
		postCheck   func(t *testing.T, cfg *testConfig)
	}{
		{
			name: "Success - yaml only",
			yaml: "server:\n  port: 8080\ndatabase:\n  url: postgres://localhost/db\n  timeout: 3s\n",
			postCheck: func(t *testing.T, cfg *testConfig) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "postgres://localhost/db", cfg.Database.URL)
				assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
			},
		},
		{
			name:   "Success - .env overrides yaml",
			yaml:   "server:\n  port: 8080\n",
			dotEnv: "TESTSVC_SERVER_PORT=9090\nUNRELATED_KEY=1\n",
			postCheck: func(t *testing.T, cfg *testConfig) {
				assert.Equal(t, 9090, cfg.Server.Port)
			},
		},
		{
			name:   "Success - system env has the highest priority",
			yaml:   "server:\n  port: 8080\n",
			dotEnv: "TESTSVC_SERVER_PORT=9090\n",
			env:    map[string]string{"TESTSVC_SERVER_PORT": "7070", "TESTSVC_DATABASE_URL": "postgres://env/db"},
			postCheck: func(t *testing.T, cfg *testConfig) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "postgres://env/db", cfg.Database.URL)
			},
		},
		{
			name:        "Failure - validation error",
			yaml:        "database:\n  url: postgres://localhost/db\n",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			dir := t.TempDir()
			if tc.yaml != "" {
				writeFile(t, dir, "config.yaml", tc.yaml)
			}
			if tc.dotEnv != "" {
				writeFile(t, dir, ".env", tc.dotEnv)
			}
			t.Chdir(dir)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			// when
			cfg, err := Load[*testConfig]("testsvc")

			// then
			if tc.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tc.postCheck(t, cfg)
		})
	}
}

func TestLoad_ConfigFileOverride(t *testing.T) {
	// given
	dir := t.TempDir()
	writeFile(t, dir, "custom.yaml", "server:\n  port: 6060\n")
	t.Chdir(t.TempDir())
	t.Setenv("TESTSVC_CONFIG_FILE", filepath.Join(dir, "custom.yaml"))

	// when
	cfg, err := Load[*testConfig]("testsvc")

	// then
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}

func TestLoad_MalformedYAML(t *testing.T) {
	// given
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "server: [port\n")
	t.Chdir(dir)

	// when
	_, err := Load[*testConfig]("testsvc")

	// then
	require.Error(t, err)
}

func TestKeyMapper(t *testing.T) {
	toKey := keyMapper("TESTSVC_")

	assert.Equal(t, "server.port", toKey("TESTSVC_SERVER_PORT"))
	assert.Equal(t, "idp.jwksurl", toKey("testsvc_IDP_JWKSURL"))
}
