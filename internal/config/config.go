package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the gateway configuration.
type Config struct {
	Port             string   `yaml:"port"`               // HTTP listen port
	Hostname         string   `yaml:"hostname"`           // hostname this gateway is served on
	DevHost          string   `yaml:"dev_host"`           // development loopback label
	APIBaseURL       string   `yaml:"api_base_url"`       // explicit backend override
	DevAPIURL        string   `yaml:"dev_api_url"`        // backend used when Hostname matches DevHost
	ProductionAPIURL string   `yaml:"production_api_url"` // fixed production backend
	ApexDomains      []string `yaml:"apex_domains"`       // apex domains for tenant resolution
	EditorLicenseKey string   `yaml:"editor_license_key"` // third-party page-builder license
	SessionSlotPath  string   `yaml:"session_slot_path"`  // file-backed token slot location
	SessionDBURL     string   `yaml:"session_db_url"`     // postgres token slot; empty selects the file slot
	TemplatesDir     string   `yaml:"templates_dir"`      // profile schema + portfolio template
}

// Load reads configuration from an optional YAML file named by
// GATEWAY_CONFIG_FILE, then overrides from environment variables with
// sensible defaults.
func Load() (*Config, error) {
	config := &Config{
		Port:             "3000",
		Hostname:         "localhost",
		DevHost:          "localhost",
		DevAPIURL:        "http://localhost:8080",
		ProductionAPIURL: "https://api.portfolio-generator.hbhanot.tech",
		ApexDomains:      []string{"portfolio-generator.hbhanot.tech"},
		SessionSlotPath:  ".session/token",
		TemplatesDir:     "templates",
	}

	if path := os.Getenv("GATEWAY_CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(c *Config) {
	c.Port = getEnv("PORT", c.Port)
	c.Hostname = getEnv("GATEWAY_HOSTNAME", c.Hostname)
	c.DevHost = getEnv("DEV_HOST", c.DevHost)
	c.APIBaseURL = getEnv("API_BASE_URL", c.APIBaseURL)
	c.DevAPIURL = getEnv("DEV_API_URL", c.DevAPIURL)
	c.ProductionAPIURL = getEnv("PRODUCTION_API_URL", c.ProductionAPIURL)
	c.EditorLicenseKey = getEnv("EDITOR_LICENSE_KEY", c.EditorLicenseKey)
	c.SessionSlotPath = getEnv("SESSION_SLOT_PATH", c.SessionSlotPath)
	c.SessionDBURL = getEnv("SESSION_DATABASE_URL", c.SessionDBURL)
	c.TemplatesDir = getEnv("TEMPLATES_DIR", c.TemplatesDir)

	if apexes := os.Getenv("APEX_DOMAINS"); apexes != "" {
		var list []string
		for _, a := range strings.Split(apexes, ",") {
			if a = strings.TrimSpace(a); a != "" {
				list = append(list, a)
			}
		}
		c.ApexDomains = list
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DevHost == "" {
		return fmt.Errorf("DEV_HOST cannot be empty")
	}
	if len(c.ApexDomains) == 0 {
		return fmt.Errorf("at least one apex domain is required")
	}
	if c.ProductionAPIURL == "" {
		return fmt.Errorf("PRODUCTION_API_URL cannot be empty")
	}
	return nil
}

// ResolveAPIBase picks the backend base address once at startup: the explicit
// override wins, then the development backend when the gateway hostname is
// the development host, then the production address.
func (c *Config) ResolveAPIBase() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	if c.Hostname == c.DevHost {
		return c.DevAPIURL
	}
	return c.ProductionAPIURL
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
