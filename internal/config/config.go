// Package config loads quirkbot settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sergev/quirkbot/internal/logging"
)

// Config holds the complete application configuration
type Config struct {
	Prefix   string     `toml:"prefix" yaml:"prefix"`
	LogLevel string     `toml:"log_level" yaml:"log_level"`
	Roll     RollConfig `toml:"roll" yaml:"roll"`
	REPL     REPLConfig `toml:"repl" yaml:"repl"`
}

// RollConfig holds the dice limits of the roll command
type RollConfig struct {
	MaxDice  int `toml:"max_dice" yaml:"max_dice"`
	MaxFaces int `toml:"max_faces" yaml:"max_faces"`
}

// REPLConfig holds interactive console settings
type REPLConfig struct {
	Prompt         string `toml:"prompt" yaml:"prompt"`
	HistoryFile    string `toml:"history_file" yaml:"history_file"`
	DisableHistory bool   `toml:"disable_history" yaml:"disable_history"`
	NoColor        bool   `toml:"no_color" yaml:"no_color"`
}

const (
	DefaultPrefix   = ">"
	DefaultLogLevel = "warn"
	DefaultMaxDice  = 20
	DefaultMaxFaces = 120
	DefaultPrompt   = "quirkbot> "
	historyName     = ".quirkbot_history"

	// Upper bounds for the roll limits; a single roll allocates one
	// slot per die.
	MaxDiceLimit  = 1000
	MaxFacesLimit = 1 << 20
)

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the file at path. The format is chosen by extension; fields
// the file leaves out keep their defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides settings from QUIRKBOT_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("QUIRKBOT_PREFIX"); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv("QUIRKBOT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if os.Getenv("QUIRKBOT_DEBUG") != "" {
		c.LogLevel = "debug"
	}
}

// Validate checks that the configuration can build a dispatcher.
func (c *Config) Validate() error {
	if c.Prefix == "" {
		return fmt.Errorf("config: prefix must not be empty")
	}
	if c.Roll.MaxDice < 1 || c.Roll.MaxDice > MaxDiceLimit {
		return fmt.Errorf("config: roll.max_dice must be in 1..%d, got %d", MaxDiceLimit, c.Roll.MaxDice)
	}
	if c.Roll.MaxFaces < 1 || c.Roll.MaxFaces > MaxFacesLimit {
		return fmt.Errorf("config: roll.max_faces must be in 1..%d, got %d", MaxFacesLimit, c.Roll.MaxFaces)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// HistoryPath returns the REPL history file, or "" when history is off.
func (c *Config) HistoryPath() string {
	if c.REPL.DisableHistory {
		return ""
	}
	if c.REPL.HistoryFile != "" {
		return os.ExpandEnv(c.REPL.HistoryFile)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, historyName)
}

func (c *Config) applyDefaults() {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Roll.MaxDice == 0 {
		c.Roll.MaxDice = DefaultMaxDice
	}
	if c.Roll.MaxFaces == 0 {
		c.Roll.MaxFaces = DefaultMaxFaces
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = DefaultPrompt
	}
}
