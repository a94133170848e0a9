package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	envKeys := []string{
		"GATEWAY_CONFIG_FILE", "PORT", "GATEWAY_HOSTNAME", "DEV_HOST",
		"API_BASE_URL", "DEV_API_URL", "PRODUCTION_API_URL", "APEX_DOMAINS",
		"EDITOR_LICENSE_KEY", "SESSION_SLOT_PATH", "SESSION_DATABASE_URL",
		"TEMPLATES_DIR",
	}
	clearEnv := func() {
		for _, k := range envKeys {
			os.Unsetenv(k)
		}
	}

	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		check       func(t *testing.T, c *Config)
		wantErr     bool
		errContains string
	}{
		{
			name:     "default configuration when no env vars set",
			setupEnv: func(t *testing.T) {},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "3000", c.Port)
				assert.Equal(t, "localhost", c.Hostname)
				assert.Equal(t, []string{"portfolio-generator.hbhanot.tech"}, c.ApexDomains)
			},
		},
		{
			name: "custom configuration from environment variables",
			setupEnv: func(t *testing.T) {
				os.Setenv("PORT", "9999")
				os.Setenv("GATEWAY_HOSTNAME", "portfolio-generator.hbhanot.tech")
				os.Setenv("APEX_DOMAINS", "example.com, example.org")
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "9999", c.Port)
				assert.Equal(t, "portfolio-generator.hbhanot.tech", c.Hostname)
				assert.Equal(t, []string{"example.com", "example.org"}, c.ApexDomains)
			},
		},
		{
			name: "yaml file applies before env overrides",
			setupEnv: func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "gateway.yaml")
				body := "port: \"4000\"\napex_domains:\n  - custom.dev\n"
				require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
				os.Setenv("GATEWAY_CONFIG_FILE", path)
				os.Setenv("PORT", "5000")
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "5000", c.Port)
				assert.Equal(t, []string{"custom.dev"}, c.ApexDomains)
			},
		},
		{
			name: "missing config file returns error",
			setupEnv: func(t *testing.T) {
				os.Setenv("GATEWAY_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
			},
			wantErr:     true,
			errContains: "read config file",
		},
		{
			name: "empty apex domain list returns error",
			setupEnv: func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "gateway.yaml")
				require.NoError(t, os.WriteFile(path, []byte("apex_domains: []\n"), 0o644))
				os.Setenv("GATEWAY_CONFIG_FILE", path)
			},
			wantErr:     true,
			errContains: "apex domain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			defer clearEnv()
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestResolveAPIBase(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{
			name:     "explicit override wins",
			cfg:      Config{APIBaseURL: "http://override:9000", Hostname: "localhost", DevHost: "localhost", DevAPIURL: "http://localhost:8080", ProductionAPIURL: "https://api.example.com"},
			expected: "http://override:9000",
		},
		{
			name:     "development host falls back to dev backend",
			cfg:      Config{Hostname: "localhost", DevHost: "localhost", DevAPIURL: "http://localhost:8080", ProductionAPIURL: "https://api.example.com"},
			expected: "http://localhost:8080",
		},
		{
			name:     "production hostname uses production backend",
			cfg:      Config{Hostname: "portfolio-generator.hbhanot.tech", DevHost: "localhost", DevAPIURL: "http://localhost:8080", ProductionAPIURL: "https://api.example.com"},
			expected: "https://api.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.ResolveAPIBase())
		})
	}
}
