package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"medboard/cmd/medboard/board"
	"medboard/internal/config"
	"medboard/internal/dashboard"
	"medboard/internal/logging"
	"medboard/internal/metrics"
	"medboard/internal/prefs"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// runDashboard runs the TUI alongside the config watcher and, when an
// address is set, the metrics endpoint. Leaving the TUI stops the rest; a
// failing helper quits the TUI.
func runDashboard(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}

	if err := logging.Initialize(ws, cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseAll()
	bootLog := logging.Get(logging.CategoryBoot)

	store, err := prefs.Open(cfg.Preferences.Backend, cfg.PreferencesDir(ws))
	if err != nil {
		return fmt.Errorf("failed to open preference store: %w", err)
	}
	defer store.Close()

	m := metrics.New()
	addr := cfg.Metrics.Addr
	if metricsAddr != "" {
		addr = metricsAddr
	}

	var program atomic.Pointer[tea.Program]
	watcher, err := config.NewWatcher(config.Path(ws), func(c *config.Config) {
		if p := program.Load(); p != nil {
			p.Send(board.OptionsMsg{Options: dashboard.OptionsFromConfig(c)})
		}
	}, logging.Get(logging.CategoryConfig))
	if err != nil {
		return err
	}

	bootLog.Info("starting dashboard",
		zap.String("workspace", ws),
		zap.String("prefs_backend", cfg.Preferences.Backend),
		zap.String("metrics_addr", addr))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Run(gctx)
	})
	if addr != "" {
		metricsLog := logging.Get(logging.CategoryMetrics)
		g.Go(func() error {
			metricsLog.Info("metrics endpoint listening", zap.String("addr", addr))
			err := m.Serve(gctx, addr)
			metricsLog.Info("metrics endpoint stopped", zap.String("addr", addr), zap.Error(err))
			return err
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		if p := program.Load(); p != nil {
			p.Quit()
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return board.Run(board.Config{
			Deps: dashboard.Deps{
				Preferences: prefs.NewViewModePreference(store, logging.Get(logging.CategoryPrefs)),
				Metrics:     m,
			},
			Options:        dashboard.OptionsFromConfig(cfg),
			Theme:          cfg.UI.Theme,
			RenderCacheTTL: cfg.GetRenderCacheTTL(),
			ShowHelp:       cfg.UI.ShowHelp,
		}, publishProgram(gctx, &program))
	})

	err = g.Wait()
	stats := watcher.Stats()
	bootLog.Info("dashboard stopped",
		zap.Int("config_reloads", stats.Reloads),
		zap.Int("config_invalid_edits", stats.InvalidEdits),
		zap.Error(err))
	return err
}

// publishProgram stores the program for the helpers and quits it straight away
// when one of them already failed before it was published.
func publishProgram(ctx context.Context, slot *atomic.Pointer[tea.Program]) func(*tea.Program) {
	return func(p *tea.Program) {
		slot.Store(p)
		if ctx.Err() != nil {
			// Quit blocks until Run reads messages.
			go p.Quit()
		}
	}
}
