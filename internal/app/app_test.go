package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/rolo/internal/config"
)

func TestApplyOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.Config{Node: "127.0.0.1:8080", LogFile: "/var/log/rolo.log", LogLevel: slog.LevelInfo}
	err := applyOverrides(&cfg, Options{Node: " 10.0.0.2:8080 ", LogPath: "~/rolo/debug.log", Debug: true})
	if err != nil {
		t.Fatalf("applyOverrides returned error: %v", err)
	}
	if cfg.Node != "10.0.0.2:8080" {
		t.Fatalf("Node = %q, want %q", cfg.Node, "10.0.0.2:8080")
	}
	if want := filepath.Join(home, "rolo/debug.log"); cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
}

func TestApplyOverrides_EmptyKeepsConfig(t *testing.T) {
	cfg := config.Config{Node: "node:1", LogFile: "/tmp/rolo.log", LogLevel: slog.LevelWarn}
	if err := applyOverrides(&cfg, Options{Node: "  "}); err != nil {
		t.Fatalf("applyOverrides returned error: %v", err)
	}
	if cfg.Node != "node:1" || cfg.LogFile != "/tmp/rolo.log" || cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("config changed: %+v", cfg)
	}
}

func TestOpenLog_CreatesDirAndFiltersLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "nested", "state", "rolo.log")
	logger, closeLog, err := openLog(path, slog.LevelWarn)
	if err != nil {
		t.Fatalf("openLog returned error: %v", err)
	}
	logger.Info("hidden", "k", "v")
	logger.Warn("push: read", "error", "reset by peer")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("log contains a record below the level:\n%s", out)
	}
	if !strings.Contains(out, `msg="push: read"`) || !strings.Contains(out, `error="reset by peer"`) {
		t.Fatalf("log missing warn record:\n%s", out)
	}
}
