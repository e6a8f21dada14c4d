// Package config handles configuration for repochat.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultAPIURL is the backend address used when nothing else is configured
const DefaultAPIURL = "http://localhost:3001"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// APIURL is the base URL of the repository/AI backend.
	APIURL string `json:"api_url"`
	// RequestTimeout is the per-request timeout in seconds. 0 disables it.
	RequestTimeout int    `json:"request_timeout"`
	LogLevel       string `json:"log_level"`
	LogFile        string `json:"log_file,omitempty"`
	// CopyToClipboard copies every assistant reply to the clipboard.
	CopyToClipboard bool   `json:"copy_to_clipboard"`
	ExportDir       string `json:"export_dir,omitempty"`
	// ExportFormat is "markdown" or "json"
	ExportFormat string `json:"export_format,omitempty"`
	// Theme names the interface colour palette
	Theme    string         `json:"theme"`
	Markdown MarkdownConfig `json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	configDir, _ := GetConfigDir()
	return Config{
		APIURL:          DefaultAPIURL,
		RequestTimeout:  300,
		LogLevel:        "info",
		LogFile:         filepath.Join(configDir, "repochat.log"),
		CopyToClipboard: false,
		ExportDir:       filepath.Join(configDir, "transcripts"),
		ExportFormat:    "markdown",
		Theme:           "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns RequestTimeout as a duration
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".repochat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetExportDir returns the transcript directory from config, creating it if necessary
func GetExportDir(cfg Config) (string, error) {
	dir := cfg.ExportDir
	if dir == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "transcripts")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	return dir, nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	applyEnv(&cfg)
	return cfg, err
}

// LoadFile loads the configuration file without environment overrides.
// A missing file yields the defaults; an unreadable one yields the defaults
// along with the error.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// applyEnv overlays REPOCHAT_* environment variables
func applyEnv(cfg *Config) {
	if v := os.Getenv("REPOCHAT_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("REPOCHAT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys lists the settings accepted by Set
func Keys() []string {
	return []string{
		"api_url",
		"request_timeout",
		"log_level",
		"log_file",
		"copy_to_clipboard",
		"export_dir",
		"export_format",
		"theme",
		"markdown.style",
	}
}

// Set updates a single setting by key, parsing value as needed
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "api_url":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("api_url must start with http:// or https://")
		}
		c.APIURL = strings.TrimRight(value, "/")
	case "request_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("request_timeout must be a non-negative number of seconds")
		}
		c.RequestTimeout = n
	case "log_level":
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false")
		}
		c.CopyToClipboard = b
	case "export_dir":
		c.ExportDir = value
	case "export_format":
		switch f := strings.ToLower(strings.TrimSpace(value)); f {
		case "markdown", "md":
			c.ExportFormat = "markdown"
		case "json":
			c.ExportFormat = f
		default:
			return fmt.Errorf("export_format must be markdown or json")
		}
	case "theme":
		c.Theme = value
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}
