package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/rolo/internal/config"
	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/dispatch"
	"github.com/five82/rolo/internal/prefs"
	"github.com/five82/rolo/internal/session"
	"github.com/five82/rolo/internal/ui"
)

// Options configure the rolo application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/rolo/prefs.toml
	Node       string // overrides config node
	LogPath    string // overrides config log_file
	Debug      bool   // forces debug logging
}

// Run boots the rolo TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return err
	}

	logger, closeLog, err := openLog(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()
	logger.Info("rolo starting", "node", cfg.Node, "service", cfg.Service, "namespace", cfg.Namespace)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	client, err := contacts.NewClient(cfg.Node, cfg.Service, cfg.Cookie)
	if err != nil {
		return fmt.Errorf("init node client: %w", err)
	}

	ctrl := session.New(session.Config{
		Fetcher:   client,
		Dial:      session.ClientDialer(client),
		Namespace: cfg.Namespace,
		Logger:    logger,
	})
	if err := ctrl.Start(ctx); err != nil {
		return err
	}

	err = ui.Run(ui.Options{
		Context:    ctx,
		Controller: ctrl,
		Dispatcher: dispatch.New(client, cfg.Namespace, logger),
		ThemeName:  userPrefs.Theme,
		PrefsPath:  prefsPath,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("ui exited", "error", err)
		return err
	}
	logger.Info("rolo stopped")
	return nil
}

// applyOverrides folds command-line flags into the loaded config.
func applyOverrides(cfg *config.Config, opts Options) error {
	if v := strings.TrimSpace(opts.Node); v != "" {
		cfg.Node = v
	}
	if v := strings.TrimSpace(opts.LogPath); v != "" {
		path, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("log path: %w", err)
		}
		cfg.LogFile = path
	}
	if opts.Debug {
		cfg.LogLevel = slog.LevelDebug
	}
	return nil
}
