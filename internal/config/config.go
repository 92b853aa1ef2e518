package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all athlonos configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Chat agent defaults; the settings window edits a live copy.
	Agent AgentConfig `yaml:"agent"`

	Desktop DesktopConfig `yaml:"desktop"`
	Files   FilesConfig   `yaml:"files"`
	Browser BrowserConfig `yaml:"browser"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// AgentConfig configures the chat agent's transports.
type AgentConfig struct {
	Transport     string `yaml:"transport"` // cloud, local
	Mode          string `yaml:"mode"`      // direct, interpreter
	Model         string `yaml:"model"`
	APIBaseURL    string `yaml:"api_base_url"`
	APIKey        string `yaml:"api_key"`
	BackendURL    string `yaml:"backend_url"`
	CloudModel    string `yaml:"cloud_model"`
	CloudAPIKey   string `yaml:"cloud_api_key"`
	Timeout       string `yaml:"timeout"`
	MaxToolRounds int    `yaml:"max_tool_rounds"`
}

// DesktopConfig configures the terminal desktop.
type DesktopConfig struct {
	DragMargin  int    `yaml:"drag_margin"`
	ClockFormat string `yaml:"clock_format"`
	DateFormat  string `yaml:"date_format"`
	Theme       string `yaml:"theme"` // auto, dark, light
	AssetOrigin string `yaml:"asset_origin"`
}

// FilesConfig configures the mock file system.
type FilesConfig struct {
	// SeedPath points at a YAML item list; empty uses the built-in tree.
	SeedPath string `yaml:"seed_path"`
}

// BrowserConfig configures the browser app's page fetcher.
type BrowserConfig struct {
	HomeURL   string `yaml:"home_url"`
	Headless  bool   `yaml:"headless"` // render pages through headless Chromium
	ChromeBin string `yaml:"chrome_bin"`
	Timeout   string `yaml:"timeout"`
	MaxBytes  int64  `yaml:"max_bytes"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "athlonos",
		Version: "0.3.0",

		Agent: AgentConfig{
			Transport:     "local",
			Mode:          "interpreter",
			Model:         "athlon-coder",
			APIBaseURL:    "http://localhost:8000/v1",
			BackendURL:    "http://localhost:8000",
			CloudModel:    "gemini-2.5-flash",
			Timeout:       "120s",
			MaxToolRounds: 5,
		},

		Desktop: DesktopConfig{
			DragMargin:  8,
			ClockFormat: "15:04",
			DateFormat:  "Jan 2",
			Theme:       "auto",
			AssetOrigin: "http://localhost:8000",
		},

		Browser: BrowserConfig{
			HomeURL:  "https://example.com",
			Timeout:  "30s",
			MaxBytes: 2 << 20,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Missing file: defaults plus environment.
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ATHLON_TRANSPORT"); v != "" {
		c.Agent.Transport = v
	}
	if v := os.Getenv("ATHLON_MODE"); v != "" {
		c.Agent.Mode = v
	}
	if v := os.Getenv("ATHLON_MODEL"); v != "" {
		c.Agent.Model = v
	}
	if v := os.Getenv("ATHLON_API_BASE"); v != "" {
		c.Agent.APIBaseURL = v
	}
	if v := os.Getenv("ATHLON_API_KEY"); v != "" {
		c.Agent.APIKey = v
	}
	if v := os.Getenv("ATHLON_BACKEND_URL"); v != "" {
		c.Agent.BackendURL = v
	}

	// Cloud key: explicit config wins, then GEMINI_API_KEY, then API_KEY.
	if c.Agent.CloudAPIKey == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			c.Agent.CloudAPIKey = key
		} else if key := os.Getenv("API_KEY"); key != "" {
			c.Agent.CloudAPIKey = key
		}
	}
}

// GetAgentTimeout returns the per-turn agent timeout.
func (c *Config) GetAgentTimeout() time.Duration {
	d, err := time.ParseDuration(c.Agent.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// GetBrowserTimeout returns the page fetch timeout.
func (c *Config) GetBrowserTimeout() time.Duration {
	d, err := time.ParseDuration(c.Browser.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

var (
	// ValidTransports lists the agent transports.
	ValidTransports = []string{"cloud", "local"}
	// ValidModes lists the local transport modes.
	ValidModes = []string{"direct", "interpreter"}
	// ValidThemes lists the desktop themes.
	ValidThemes = []string{"auto", "dark", "light"}
)

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidTransports, c.Agent.Transport) {
		return fmt.Errorf("invalid agent transport: %s (valid: %v)", c.Agent.Transport, ValidTransports)
	}
	if !contains(ValidModes, c.Agent.Mode) {
		return fmt.Errorf("invalid agent mode: %s (valid: %v)", c.Agent.Mode, ValidModes)
	}
	if c.Agent.Transport == "local" {
		if c.Agent.Mode == "direct" && c.Agent.APIBaseURL == "" {
			return fmt.Errorf("agent.api_base_url is required for local direct mode")
		}
		if c.Agent.Mode == "interpreter" && c.Agent.BackendURL == "" {
			return fmt.Errorf("agent.backend_url is required for local interpreter mode")
		}
	}
	if c.Agent.MaxToolRounds < 1 {
		return fmt.Errorf("agent.max_tool_rounds must be at least 1, got %d", c.Agent.MaxToolRounds)
	}
	if c.Desktop.DragMargin < 0 {
		return fmt.Errorf("desktop.drag_margin must not be negative, got %d", c.Desktop.DragMargin)
	}
	if c.Desktop.Theme != "" && !contains(ValidThemes, c.Desktop.Theme) {
		return fmt.Errorf("invalid desktop theme: %s (valid: %v)", c.Desktop.Theme, ValidThemes)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
