package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appDir = "contact-fixer"

// Default prompt values
const (
	DefaultFilter      = `[+|0-9][0-9|\s|\-|a-z|A-Z]*`
	DefaultReplacement = "$0"
)

// Config holds the application configuration
type Config struct {
	Auth      AuthConfig      `toml:"auth"`
	Directory DirectoryConfig `toml:"directory"`
	Database  DatabaseConfig  `toml:"database"`
	Prompt    PromptConfig    `toml:"prompt"`
	Log       LogConfig       `toml:"log"`
}

// AuthConfig holds the OAuth client and token locations
type AuthConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	TokenPath       string `toml:"token_path"`
}

// DirectoryConfig selects and tunes the people directory backend
type DirectoryConfig struct {
	Backend     string   `toml:"backend"`
	PageSize    int64    `toml:"page_size"`
	UploadDelay Duration `toml:"upload_delay"`
}

// DatabaseConfig holds database-related configuration for the local backend
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// PromptConfig holds the defaults offered by the interactive prompts
type PromptConfig struct {
	DefaultFilter      string `toml:"default_filter"`
	DefaultReplacement string `toml:"default_replacement"`
}

// LogConfig controls the structured logger. An empty File logs to stderr.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string ("1s", "500ms") in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Dir returns the configuration directory
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(homeDir, ".config", appDir), nil
}

// Default returns the default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dir := filepath.Join(homeDir, ".config", appDir)
	return &Config{
		Auth: AuthConfig{
			CredentialsPath: filepath.Join(dir, "credentials.json"),
			TokenPath:       filepath.Join(dir, "token.yaml"),
		},
		Directory: DirectoryConfig{
			Backend:     "google",
			PageSize:    1000,
			UploadDelay: Duration{time.Second},
		},
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "contacts.db"),
		},
		Prompt: PromptConfig{
			DefaultFilter:      DefaultFilter,
			DefaultReplacement: DefaultReplacement,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the standard location
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom loads configuration from a specific path
func LoadFrom(configPath string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// No config file, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Auth.CredentialsPath = expandPath(cfg.Auth.CredentialsPath)
	cfg.Auth.TokenPath = expandPath(cfg.Auth.TokenPath)
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Directory.PageSize < 1 || c.Directory.PageSize > 1000 {
		return fmt.Errorf("directory.page_size must be between 1 and 1000, got %d", c.Directory.PageSize)
	}
	if c.Directory.UploadDelay.Duration < 0 {
		return fmt.Errorf("directory.upload_delay must not be negative")
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves the configuration to the standard location
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return c.SaveTo(filepath.Join(dir, "config.toml"))
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}
