// Package config loads starfall settings from an optional YAML file with
// environment overrides. A .env file in the working directory is honoured.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "starfall.yaml"

// Config holds all starfall configuration.
type Config struct {
	// Path of the SQLite user data store
	DBPath string `yaml:"db_path"`

	// Title shown in the activity sidebar dashboard link
	TitleID string `yaml:"title_id"`

	Links    LinksConfig    `yaml:"links"`
	Activity ActivityConfig `yaml:"activity"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LinksConfig struct {
	Platform    string `yaml:"platform"`
	DocsBaseURL string `yaml:"docs_base_url"`
	Dashboard   string `yaml:"dashboard"` // %s is replaced with the title ID
}

type ActivityConfig struct {
	Capacity int `yaml:"capacity"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

func DefaultConfig() *Config {
	return &Config{
		DBPath: "starfall.db",
		Links: LinksConfig{
			Platform:    "https://playfab.com",
			DocsBaseURL: "https://learn.microsoft.com/rest/api/playfab",
			Dashboard:   "https://developer.playfab.com/en-us/r/t/%s/dashboard",
		},
		Activity: ActivityConfig{Capacity: 100},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads path on top of DefaultConfig and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("STARFALL_DB_PATH"); ok && v != "" {
		c.DBPath = v
	}
	if v, ok := os.LookupEnv("STARFALL_TITLE_ID"); ok {
		c.TitleID = v
	}
	if v, ok := os.LookupEnv("STARFALL_DOCS_BASE_URL"); ok && v != "" {
		c.Links.DocsBaseURL = v
	}
	if v, ok := os.LookupEnv("STARFALL_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv("STARFALL_ACTIVITY_CAPACITY"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STARFALL_ACTIVITY_CAPACITY: %w", err)
		}
		c.Activity.Capacity = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if c.Activity.Capacity <= 0 {
		return fmt.Errorf("activity capacity must be positive, got %d", c.Activity.Capacity)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
