package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"athlonos/cmd/athlon/desktop"
	"athlonos/cmd/athlon/ui"
	"athlonos/internal/agent"
	"athlonos/internal/browser"
	"athlonos/internal/config"
	"athlonos/internal/files"
	"athlonos/internal/logging"
	"athlonos/internal/metrics"
)

// browserConfig maps the config section onto the fetcher settings.
func browserConfig(cfg *config.Config) browser.Config {
	bc := browser.DefaultConfig()
	bc.Headless = cfg.Browser.Headless
	bc.ChromeBin = cfg.Browser.ChromeBin
	bc.Timeout = cfg.GetBrowserTimeout()
	if cfg.Browser.MaxBytes > 0 {
		bc.MaxBytes = cfg.Browser.MaxBytes
	}
	return bc
}

// buildEnv wires the shared services every front end needs.
func buildEnv(cfg *config.Config) (*desktop.Env, error) {
	tree, err := files.LoadTree(cfg.Files.SeedPath)
	if err != nil {
		return nil, err
	}
	orch := agent.New(agent.ConfigFrom(cfg), agent.NewToolbox(tree))
	return &desktop.Env{
		Config:  cfg,
		Agent:   orch,
		Tree:    tree,
		Fetcher: browser.New(browserConfig(cfg)),
		Styles:  ui.NewStyles(ui.ThemeFor(cfg.Desktop.Theme)),
	}, nil
}

// runDesktop boots the TUI and blocks until the user quits.
func runDesktop(parent context.Context) error {
	if err := appCfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	env, err := buildEnv(appCfg)
	if err != nil {
		return err
	}
	if c, ok := env.Fetcher.(io.Closer); ok {
		defer c.Close()
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if addr := appCfg.Metrics.Addr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				logger.Error("metrics endpoint stopped", zap.String("addr", addr), zap.Error(err))
			}
		}()
	}

	logging.Boot("booting desktop: transport=%s mode=%s theme=%s",
		appCfg.Agent.Transport, appCfg.Agent.Mode, appCfg.Desktop.Theme)

	p := tea.NewProgram(
		desktop.New(env),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	if err != nil && ctx.Err() != nil {
		// Interrupted by a signal; not a failure.
		return nil
	}
	return err
}
