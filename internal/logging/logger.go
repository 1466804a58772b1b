// Package logging provides config-driven categorized logging for medboard.
// Logs are written as JSON lines to .medboard/logs/medboard.log, one zap core
// shared by every category. Logging is controlled by logging.debug_mode in
// .medboard/config.yaml: when false, every category gets a no-op logger so
// nothing can write over the terminal UI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"medboard/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup and shutdown
	CategoryConfig    Category = "config"    // Config load and hot reload
	CategoryWorkspace Category = "workspace" // Card lifecycle
	CategoryViewMode  Category = "viewmode"  // Mode transitions, panel, layout
	CategoryGenUI     Category = "genui"     // Prompt resolution and generation tasks
	CategoryPrefs     Category = "prefs"     // Preference persistence
	CategoryNotify    Category = "notify"    // Toasts and announcements
	CategoryUI        Category = "ui"        // Terminal host, rendering
	CategoryMetrics   Category = "metrics"   // Metrics endpoint
)

// FileName is the log file inside the logs directory.
const FileName = "medboard.log"

var (
	mu    sync.RWMutex
	root  *zap.Logger
	cfg   config.LoggingConfig
	cache = make(map[Category]*zap.Logger)
)

// Initialize sets up the log file under workspace and applies cfg.
// It is a silent no-op when debug mode is off.
func Initialize(workspace string, c config.LoggingConfig) error {
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}

	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	cfg = c
	logsDir := config.LogsDir(workspace)

	if !cfg.DebugMode {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zc.Sampling = nil
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{filepath.Join(logsDir, FileName)}
	zc.ErrorOutputPaths = []string{filepath.Join(logsDir, FileName)}

	l, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	root = l

	boot := getLocked(CategoryBoot)
	boot.Info("logging initialized",
		zap.String("workspace", workspace),
		zap.String("logs_dir", logsDir),
		zap.String("level", cfg.Level))
	if len(cfg.Categories) == 0 {
		boot.Debug("all categories enabled (no category filter)")
	}
	return nil
}

// UseCore routes all categories through core regardless of debug mode.
// Tests use it with zaptest/observer.
func UseCore(core zapcore.Core) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	root = zap.New(core)
	cfg = config.LoggingConfig{DebugMode: true, Categories: cfg.Categories}
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the logger for category. Disabled categories, and every category
// when debug mode is off, get zap.NewNop.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := cache[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	return getLocked(category)
}

func getLocked(category Category) *zap.Logger {
	if l, ok := cache[category]; ok {
		return l
	}
	l := zap.NewNop()
	if root != nil && cfg.IsCategoryEnabled(string(category)) {
		l = root.Named(string(category)).With(zap.String("category", string(category)))
	}
	cache[category] = l
	return l
}

// CloseAll flushes the log file and resets to no-op loggers (call at shutdown).
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if root != nil {
		_ = root.Sync()
	}
	root = nil
	cfg = config.LoggingConfig{}
	cache = make(map[Category]*zap.Logger)
}
