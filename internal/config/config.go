// Package config loads the certd daemon configuration from a YAML file and
// CERTLIFE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"xdao.co/certlife/program"
)

const (
	StorePluginMemory = "memory"
	StorePluginBadger = "badger"

	DefaultShutdownTimeout = "30s"
	envPrefix              = "certlife"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	ListenAddr      string   `yaml:"listenAddr"      split_words:"true"`
	MetricsAddr     string   `yaml:"metricsAddr"     split_words:"true"`
	StorePlugin     string   `yaml:"storePlugin"     split_words:"true"`
	DatabasePath    string   `yaml:"databasePath"    split_words:"true"`
	ArchiveDirs     []string `yaml:"archiveDirs"     split_words:"true"`
	ProgramID       string   `yaml:"programId"       envconfig:"PROGRAM_ID"`
	LogLevel        string   `yaml:"logLevel"        split_words:"true"`
	ShutdownTimeout string   `yaml:"shutdownTimeout" split_words:"true"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		ListenAddr:      "127.0.0.1:7878",
		MetricsAddr:     "127.0.0.1:9878",
		StorePlugin:     StorePluginMemory,
		DatabasePath:    ".certlife",
		LogLevel:        "info",
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadConfig reads configFile over the defaults, applies environment
// overrides and validates the result. An empty configFile falls back to
// ~/.certlife/certd.yaml and then /etc/certlife/certd.yaml when they exist.
func LoadConfig(configFile string) (*Config, error) {
	cfg := Default()
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	var candidates []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".certlife", "certd.yaml"))
	}
	candidates = append(candidates, "/etc/certlife/certd.yaml")
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: listenAddr is required", ErrInvalidConfig)
	}
	switch c.StorePlugin {
	case StorePluginMemory:
	case StorePluginBadger:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: databasePath is required for the badger store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storePlugin %q", ErrInvalidConfig, c.StorePlugin)
	}
	for i, dir := range c.ArchiveDirs {
		if dir == "" {
			return fmt.Errorf("%w: archiveDirs[%d] is empty", ErrInvalidConfig, i)
		}
	}
	if _, err := c.Program(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Shutdown(); err != nil {
		return err
	}
	return nil
}

// Program returns the configured certificate program ID, or the default one.
func (c *Config) Program() (solana.PublicKey, error) {
	if c.ProgramID == "" {
		return program.DefaultProgramID, nil
	}
	id, err := solana.PublicKeyFromBase58(c.ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: programId: %v", ErrInvalidConfig, err)
	}
	if id == solana.SystemProgramID {
		return solana.PublicKey{}, fmt.Errorf("%w: programId collides with the system program", ErrInvalidConfig)
	}
	return id, nil
}

func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: logLevel: %v", ErrInvalidConfig, err)
	}
	return lvl, nil
}

func (c *Config) Shutdown() (time.Duration, error) {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: shutdownTimeout: %v", ErrInvalidConfig, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: shutdownTimeout must be positive", ErrInvalidConfig)
	}
	return d, nil
}
