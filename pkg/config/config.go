package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the site every export is resolved against
	DefaultBaseURL = "https://rateyourmusic.com"

	// DefaultUserAgent looks like an ordinary desktop browser so listing pages are served normally
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:54.0) Gecko/20100101 Firefox/54.0"

	// DefaultDelay is the pause between two listing pages
	DefaultDelay = 10 * time.Second

	envPrefix = "RYMEXPORT_"
)

// Config holds all configuration options for an export run
type Config struct {
	// Remote site settings
	Site SiteConfig `yaml:"site" json:"site"`

	// Pacing and transport settings
	Crawl CrawlConfig `yaml:"crawl" json:"crawl"`

	// Output document settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SiteConfig describes the site being scraped
type SiteConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// CrawlConfig controls how listing pages are fetched
type CrawlConfig struct {
	// Delay is slept between pages, never after the last one
	Delay time.Duration `yaml:"delay" json:"delay"`
	// Timeout of a single request; zero waits forever
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// RequestsPerMinute caps the request rate; zero disables the cap
	RequestsPerMinute int  `yaml:"requests_per_minute" json:"requests_per_minute"`
	RespectRobots     bool `yaml:"respect_robots" json:"respect_robots"`
}

// OutputConfig holds settings for the printed JSON document
type OutputConfig struct {
	Indent bool `yaml:"indent" json:"indent"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: DefaultUserAgent,
		},
		Crawl: CrawlConfig{
			Delay:             DefaultDelay,
			Timeout:           0,
			RequestsPerMinute: 0,
			RespectRobots:     false,
		},
		Output: OutputConfig{
			Indent: false,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if baseURL := os.Getenv(envPrefix + "BASE_URL"); baseURL != "" {
		c.Site.BaseURL = baseURL
	}
	if userAgent := os.Getenv(envPrefix + "USER_AGENT"); userAgent != "" {
		c.Site.UserAgent = userAgent
	}

	if delay := os.Getenv(envPrefix + "DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sDELAY: %w", envPrefix, err))
		} else {
			c.Crawl.Delay = d
		}
	}
	if timeout := os.Getenv(envPrefix + "TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err))
		} else {
			c.Crawl.Timeout = d
		}
	}
	if rpm := os.Getenv(envPrefix + "REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUESTS_PER_MINUTE: %w", envPrefix, err))
		} else {
			c.Crawl.RequestsPerMinute = val
		}
	}
	if robots := os.Getenv(envPrefix + "RESPECT_ROBOTS"); robots != "" {
		c.Crawl.RespectRobots = strings.ToLower(robots) == "true"
	}

	if indent := os.Getenv(envPrefix + "INDENT"); indent != "" {
		c.Output.Indent = strings.ToLower(indent) == "true"
	}

	if logLevel := os.Getenv(envPrefix + "LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv(envPrefix + "LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.Logging.NoColor = true
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".rymexport.yaml",
		".rymexport.yml",
		filepath.Join(home, ".config", "rymexport", "config.yaml"),
		filepath.Join(home, ".config", "rymexport", "config.yml"),
		filepath.Join(home, ".rymexport.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Site.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	} else if u, err := url.Parse(c.Site.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL %q must be an absolute URL", c.Site.BaseURL))
	}
	if c.Site.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}

	if c.Crawl.Delay < 0 {
		errs = append(errs, errors.New("delay cannot be negative"))
	}
	if c.Crawl.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}
	if c.Crawl.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Keys follow the long flag names; only flags the user actually set should be present.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Site.BaseURL = baseURL
	}
	if userAgent, ok := flags["user-agent"].(string); ok && userAgent != "" {
		c.Site.UserAgent = userAgent
	}
	if delay, ok := flags["delay"].(time.Duration); ok {
		c.Crawl.Delay = delay
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok {
		c.Crawl.Timeout = timeout
	}
	if rpm, ok := flags["rate-limit"].(int); ok {
		c.Crawl.RequestsPerMinute = rpm
	}
	if robots, ok := flags["respect-robots"].(bool); ok {
		c.Crawl.RespectRobots = robots
	}
	if indent, ok := flags["indent"].(bool); ok {
		c.Output.Indent = indent
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".rymexport.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
