package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level console configuration.
type Config struct {
	Console ConsoleConfig `yaml:"console"`
	Store   StoreConfig   `yaml:"store"`
	Engine  EngineConfig  `yaml:"engine"`
}

// ConsoleConfig controls the interactive prompt.
type ConsoleConfig struct {
	Prompt        string `yaml:"prompt"`
	HistoryWindow int    `yaml:"history_window"`
	Colors        bool   `yaml:"colors"`
}

// StoreConfig controls where sessions are persisted. An empty path keeps
// sessions in memory for the lifetime of the process.
type StoreConfig struct {
	Path       string `yaml:"path"`
	SessionKey string `yaml:"session_key"`
}

// EngineConfig controls engine startup.
type EngineConfig struct {
	Preload []string `yaml:"preload"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Console: ConsoleConfig{
			Prompt:        ">> ",
			HistoryWindow: 5,
			Colors:        true,
		},
		Store: StoreConfig{
			Path:       DefaultStorePath(),
			SessionKey: "slate_session",
		},
	}
}

// DefaultStorePath is the sqlite file used when none is configured.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "slate.db"
	}
	return filepath.Join(home, ".slate", "slate.db")
}

// LoadConfig reads a yaml file over the defaults. An empty path returns
// the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks for values the console cannot run with.
func (c *Config) Validate() error {
	if c.Console.HistoryWindow < 1 {
		return fmt.Errorf("console.history_window must be at least 1")
	}
	if c.Store.SessionKey == "" {
		return fmt.Errorf("store.session_key must not be empty")
	}
	for _, name := range c.Engine.Preload {
		if _, ok := availableModules[name]; !ok {
			return fmt.Errorf("engine.preload: unknown module %q (have %s)", name, strings.Join(ModuleNames(), ", "))
		}
	}
	return nil
}
