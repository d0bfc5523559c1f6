package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AddrEnvVar overrides the server listen address when set
const AddrEnvVar = "HTTPLITE_ADDR"

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Routes  []RouteConfig `yaml:"routes"`
	Client  ClientConfig  `yaml:"client"`
	Retry   RetryConfig   `yaml:"retry"`
	Logging LogConfig     `yaml:"logging"`
}

// ServerConfig contains settings for the listening server
type ServerConfig struct {
	Addr string `yaml:"addr"` // host:port, or :port for loopback
}

// RouteConfig describes a static route answered from configuration.
// Exactly one of Text or JSON must be set.
type RouteConfig struct {
	Prefix string                 `yaml:"prefix"`
	Text   string                 `yaml:"text"`
	JSON   map[string]interface{} `yaml:"json"`
}

// ClientConfig contains settings for the request client
type ClientConfig struct {
	DialTimeout int `yaml:"dial_timeout"` // in milliseconds
	ReadTimeout int `yaml:"read_timeout"` // in milliseconds
}

// RetryConfig contains settings for retrying client connections
type RetryConfig struct {
	Enabled         bool     `yaml:"enabled"`
	MaxRetries      int      `yaml:"max_retries"`
	InitialDelay    int      `yaml:"initial_delay"` // in milliseconds
	MaxDelay        int      `yaml:"max_delay"`     // in milliseconds
	BackoffFactor   float64  `yaml:"backoff_factor"`
	JitterFactor    float64  `yaml:"jitter_factor"`
	RetryableErrors []string `yaml:"retryable_errors"`
}

// LogConfig contains settings for logging
type LogConfig struct {
	Level       string `yaml:"level"`  // zerolog level name
	Format      string `yaml:"format"` // json or console
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
	MaxSize     int    `yaml:"max_size"`    // megabytes
	MaxBackups  int    `yaml:"max_backups"` // rotated files kept
	MaxAge      int    `yaml:"max_age"`     // days
	Compress    bool   `yaml:"compress"`
}

// LoadDefault returns a configuration with default values
func LoadDefault() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Client: ClientConfig{
			DialTimeout: 2000,
			ReadTimeout: 10000,
		},
		Retry: RetryConfig{
			Enabled:       true,
			MaxRetries:    3,
			InitialDelay:  100,
			MaxDelay:      2000,
			BackoffFactor: 2.0,
			JitterFactor:  0.1,
			RetryableErrors: []string{
				"connection refused",
				"connection reset",
				"i/o timeout",
			},
		},
		Logging: LogConfig{
			Level:       "info",
			Format:      "console",
			LogToFile:   false,
			LogFilePath: "httplite.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
	}
}

// LoadFromEnv returns the default configuration with environment
// overrides applied. It is what the CLI uses when no config file is given.
func LoadFromEnv() *Config {
	cfg := LoadDefault()
	applyEnv(cfg)
	return cfg
}

// Load reads configuration from a file and merges it with default values
func Load(configPath string) (*Config, error) {
	cfg := LoadDefault()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.Server.Addr != "" {
		cfg.Server.Addr = fileCfg.Server.Addr
	}

	if len(fileCfg.Routes) > 0 {
		cfg.Routes = fileCfg.Routes
	}

	if fileCfg.Client.DialTimeout > 0 {
		cfg.Client.DialTimeout = fileCfg.Client.DialTimeout
	}
	if fileCfg.Client.ReadTimeout > 0 {
		cfg.Client.ReadTimeout = fileCfg.Client.ReadTimeout
	}

	// retry.enabled defaults to true, so only an explicit value in the file
	// can turn it off
	var raw struct {
		Retry map[string]interface{} `yaml:"retry"`
	}
	if err := yaml.Unmarshal(data, &raw); err == nil {
		if _, ok := raw.Retry["enabled"]; ok {
			cfg.Retry.Enabled = fileCfg.Retry.Enabled
		}
	}
	if fileCfg.Retry.MaxRetries > 0 {
		cfg.Retry.MaxRetries = fileCfg.Retry.MaxRetries
	}
	if fileCfg.Retry.InitialDelay > 0 {
		cfg.Retry.InitialDelay = fileCfg.Retry.InitialDelay
	}
	if fileCfg.Retry.MaxDelay > 0 {
		cfg.Retry.MaxDelay = fileCfg.Retry.MaxDelay
	}
	if fileCfg.Retry.BackoffFactor > 0 {
		cfg.Retry.BackoffFactor = fileCfg.Retry.BackoffFactor
	}
	if fileCfg.Retry.JitterFactor > 0 {
		cfg.Retry.JitterFactor = fileCfg.Retry.JitterFactor
	}
	if len(fileCfg.Retry.RetryableErrors) > 0 {
		cfg.Retry.RetryableErrors = fileCfg.Retry.RetryableErrors
	}

	if fileCfg.Logging.Level != "" {
		cfg.Logging.Level = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Format != "" {
		cfg.Logging.Format = fileCfg.Logging.Format
	}
	if fileCfg.Logging.LogToFile {
		cfg.Logging.LogToFile = fileCfg.Logging.LogToFile
	}
	if fileCfg.Logging.LogFilePath != "" {
		cfg.Logging.LogFilePath = fileCfg.Logging.LogFilePath
	}
	if fileCfg.Logging.MaxSize > 0 {
		cfg.Logging.MaxSize = fileCfg.Logging.MaxSize
	}
	if fileCfg.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = fileCfg.Logging.MaxBackups
	}
	if fileCfg.Logging.MaxAge > 0 {
		cfg.Logging.MaxAge = fileCfg.Logging.MaxAge
	}
	if fileCfg.Logging.Compress {
		cfg.Logging.Compress = fileCfg.Logging.Compress
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault attempts to load configuration from a file.
// If the file doesn't exist or can't be parsed, it returns default configuration.
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", configPath, err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg = LoadFromEnv()
	}
	return cfg
}

// Validate checks the configuration for values the server cannot use
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	seen := make(map[string]bool, len(c.Routes))
	for i, r := range c.Routes {
		if r.Prefix == "" {
			return fmt.Errorf("routes[%d]: prefix must not be empty", i)
		}
		if seen[r.Prefix] {
			return fmt.Errorf("routes[%d]: duplicate prefix %q", i, r.Prefix)
		}
		seen[r.Prefix] = true

		if (r.Text == "") == (r.JSON == nil) {
			return fmt.Errorf("routes[%d]: exactly one of text or json must be set", i)
		}
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}

	return nil
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv(AddrEnvVar); addr != "" {
		cfg.Server.Addr = addr
	}
}
