// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles reading and writing the application configuration
// file and resolving the effective settings for the chooser, its hosts and
// the MCP server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Host names accepted by the chooser.
const (
	HostAuto = "auto"
	HostTUI  = "tui"
	HostWeb  = "web"
)

// WebConfig configures the browser host.
type WebConfig struct {
	// Port is the loopback port to listen on (0 picks a free one)
	Port int `yaml:"port"`

	// OpenBrowser launches the system browser on the page URL
	OpenBrowser bool `yaml:"open_browser"`

	// IdleTimeout is how long the host waits for a heartbeat before it
	// treats the page as closed
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// MCPConfig configures the stdio MCP server.
type MCPConfig struct {
	// Timeout is the default time a user has to answer a question
	Timeout time.Duration `yaml:"timeout"`

	// BinaryPath overrides the chooser executable spawned per question
	BinaryPath string `yaml:"binary_path,omitempty"`
}

// Config represents the top-level application configuration
type Config struct {
	// Host selects the front end: auto, tui or web
	Host string `yaml:"host"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	Web WebConfig `yaml:"web"`
	MCP MCPConfig `yaml:"mcp"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Host:     HostAuto,
		LogLevel: "info",
		Web: WebConfig{
			Port:        0,
			OpenBrowser: true,
			IdleTimeout: 90 * time.Second,
		},
		MCP: MCPConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Host {
	case HostAuto, HostTUI, HostWeb:
	default:
		return fmt.Errorf("invalid host %q (want %s, %s or %s)", c.Host, HostAuto, HostTUI, HostWeb)
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port %d", c.Web.Port)
	}
	if c.Web.IdleTimeout < 0 {
		return fmt.Errorf("web idle_timeout must not be negative")
	}
	if c.MCP.Timeout <= 0 {
		return fmt.Errorf("mcp timeout must be positive")
	}
	return nil
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "interactive-choice", "config.yaml"), nil
}

// LoadConfig reads the default config file. A missing file yields Default().
func LoadConfig() (Config, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads path on top of Default(); keys absent from the file keep
// their default values.
func LoadFrom(configPath string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	cfg.Host = strings.ToLower(strings.TrimSpace(cfg.Host))
	if cfg.Host == "" {
		cfg.Host = HostAuto
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// EnsureConfigDir creates the directory holding the default config file.
func EnsureConfigDir() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(configPath)
	err = os.MkdirAll(configDir, 0750) // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

// SaveConfig writes cfg to the default config file.
func SaveConfig(cfg Config) error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}

	err = EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg as YAML to configPath.
func SaveTo(configPath string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write with permissions rw-r----- (0640)
	err = os.WriteFile(configPath, data, 0640)
	if err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}

// ResolvePath expands a leading "~/" to the user's home directory.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
