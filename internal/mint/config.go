package mint

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
	"github.com/webmint/mint-go-cli/internal/errors"
	"gopkg.in/yaml.v3"
)

// Config key constants
const (
	ConfigKeyBaseURL      = "base-url"
	ConfigKeyOrganization = "org"
	ConfigKeyUsername     = "username"
	ConfigKeyPassword     = "password"
	ConfigKeyTimeout      = "timeout"
	ConfigKeyVerbose      = "verbose"
	ConfigKeyOutputFormat = "output-format"
	ConfigKeyColor        = "color"
)

// Config holds the configuration for the monetization API client
type Config struct {
	BaseURL            string `yaml:"base-url" mapstructure:"base-url"`
	Organization       string `yaml:"org" mapstructure:"org"`
	Username           string `yaml:"username" mapstructure:"username"`
	Password           string `yaml:"password" mapstructure:"password"`
	Timeout            int    `yaml:"timeout" mapstructure:"timeout"`
	Verbose            bool   `yaml:"verbose" mapstructure:"verbose"`
	OutputFormat       string `yaml:"output-format" mapstructure:"output-format"` // Default output format (table/json)
	Color              string `yaml:"color" mapstructure:"color"`                 // Color output (auto/always/never)
	InsecureSkipVerify bool   `yaml:"insecure" mapstructure:"insecure"`
}

// FlagValues holds command-line flag values for merging with config
type FlagValues struct {
	BaseURL            string
	Organization       string
	Username           string
	Password           string
	Timeout            int
	Verbose            bool
	OutputFormat       string
	Color              string
	InsecureSkipVerify bool
}

// LoadConfig loads configuration from multiple sources:
// 1. Config file (~/.config/mintctl/config.yaml or platform-equivalent)
// 2. Environment variables (MINT_*)
// 3. Command-line flags (set by cobra, highest priority)
func LoadConfig() (*Config, error) {
	v := viper.New()

	configDir := getConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("MINT")
	v.AutomaticEnv()

	v.SetDefault(ConfigKeyTimeout, 30)
	v.SetDefault(ConfigKeyVerbose, false)
	v.SetDefault(ConfigKeyOutputFormat, "table")
	v.SetDefault(ConfigKeyColor, "auto")

	// Read config file if it exists (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// MergeWithFlags merges configuration with command-line flags
func (c *Config) MergeWithFlags(flags FlagValues) {
	if flags.BaseURL != "" {
		c.BaseURL = flags.BaseURL
	}
	if flags.Organization != "" {
		c.Organization = flags.Organization
	}
	if flags.Username != "" {
		c.Username = flags.Username
	}
	if flags.Password != "" {
		c.Password = flags.Password
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.Verbose {
		c.Verbose = flags.Verbose
	}
	if flags.OutputFormat != "" {
		c.OutputFormat = flags.OutputFormat
	}
	if flags.Color != "" {
		c.Color = flags.Color
	}
	if flags.InsecureSkipVerify {
		c.InsecureSkipVerify = flags.InsecureSkipVerify
	}
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf(errors.MsgBaseURLRequired)
	}
	if c.Organization == "" {
		return fmt.Errorf(errors.MsgOrgRequired)
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("authentication required: username and password must be set (MINT_USERNAME / MINT_PASSWORD)")
	}
	return nil
}

// ValidateOrganization checks if an organization is configured
func (c *Config) ValidateOrganization() error {
	if c.Organization == "" {
		return fmt.Errorf(errors.MsgOrgRequired)
	}
	return nil
}

// Save writes the configuration back to the config file
func (c *Config) Save() error {
	configDir := getConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// getConfigDir is a variable that returns the platform-specific config directory
// It's a variable (not a function) to allow tests to override it
var getConfigDir = func() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "mintctl")
	case "darwin":
		configDir = filepath.Join(os.Getenv("HOME"), ".config", "mintctl")
	default: // linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "mintctl")
		} else {
			configDir = filepath.Join(os.Getenv("HOME"), ".config", "mintctl")
		}
	}

	return configDir
}
