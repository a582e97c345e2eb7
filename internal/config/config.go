package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/rolo/internal/contacts"
)

// Config is rolo's runtime configuration.
type Config struct {
	Node      string // host:port or URL of the node
	Service   string // process path segment in the node's URLs
	Namespace string // suffix appended to bare peer identities
	Cookie    string // sent verbatim as the Cookie header
	LogFile   string
	LogLevel  slog.Level
}

const (
	defaultConfigPath = "~/.config/rolo/config.toml"
	defaultLogFile    = "~/.local/state/rolo/rolo.log"
	defaultNode       = "127.0.0.1:8080"
)

// Load reads the config file, falling back to defaults when it is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Node      string `toml:"node"`
		Service   string `toml:"service"`
		Namespace string `toml:"namespace"`
		Cookie    string `toml:"cookie"`
		LogFile   string `toml:"log_file"`
		LogLevel  string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Node); v != "" {
		cfg.Node = v
	}
	if v := strings.Trim(strings.TrimSpace(raw.Service), "/"); v != "" {
		cfg.Service = v
		cfg.Namespace = v
	}
	if v := strings.TrimSpace(raw.Namespace); v != "" {
		cfg.Namespace = v
	}
	cfg.Cookie = strings.TrimSpace(raw.Cookie)
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("parse config: log_level: %w", err)
		}
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		Node:      defaultNode,
		Service:   contacts.DefaultNamespace,
		Namespace: contacts.DefaultNamespace,
		LogFile:   mustExpand(defaultLogFile),
		LogLevel:  slog.LevelInfo,
	}
}

// ExpandPath resolves a leading "~" and makes the path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
