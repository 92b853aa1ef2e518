// Package logging provides categorized logging for athlonos on top of zap.
// Each subsystem logs under its own category (a named zap logger), and
// categories can be switched off individually from the config file.
//
// Until Initialize is called every logger is a no-op. The desktop owns the
// terminal, so logs only ever go to a file or to an injected zap logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config loading
	CategoryDesktop Category = "desktop" // TUI event loop, app views
	CategoryWindow  Category = "window"  // Window manager operations
	CategoryFiles   Category = "files"   // Mock file system and navigator
	CategoryAgent   Category = "agent"   // Chat orchestration
	CategoryLLM     Category = "llm"     // Transport clients (cloud, direct, interpreter)
	CategoryRender  Category = "render"  // Message segmentation and previews
	CategoryBrowser Category = "browser" // Page fetching
	CategoryMetrics Category = "metrics" // Metrics endpoint
)

// Config mirrors config.LoggingConfig to avoid an import cycle.
type Config struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // empty disables file output
	Categories map[string]bool // nil enables everything
}

// Logger is a category-scoped logger with printf-style helpers.
type Logger struct {
	category Category
	z        *zap.Logger
}

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	categories map[string]bool
	loggers    = make(map[Category]*Logger)
	closeFn    func()
)

// Initialize builds the file-backed root logger from cfg. An empty File
// leaves logging disabled.
func Initialize(cfg Config) error {
	if cfg.File == "" {
		Use(zap.NewNop(), cfg.Categories)
		return nil
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if strings.EqualFold(cfg.Format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(file), ParseLevel(cfg.Level))
	Use(zap.New(core), cfg.Categories)

	mu.Lock()
	closeFn = func() { _ = file.Close() }
	mu.Unlock()

	Get(CategoryBoot).Info("logging initialized: file=%s level=%s format=%s", cfg.File, cfg.Level, cfg.Format)
	return nil
}

// Use installs an already built zap logger as the root. The CLI hands over
// its stderr logger this way for one-shot commands.
func Use(l *zap.Logger, enabled map[string]bool) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	base = l
	categories = enabled
	loggers = make(map[Category]*Logger)
}

// ParseLevel maps a config level string to a zap level. Unknown values mean
// info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
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

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if categories == nil {
		return true
	}
	enabled, exists := categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, z: zap.NewNop()}
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{category: category, z: base.Named(string(category))}
	loggers[category] = l
	return l
}

// Zap exposes the underlying structured logger.
func (l *Logger) Zap() *zap.Logger { return l.z }

// With returns a child logger carrying extra fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{category: l.category, z: l.z.With(fields...)}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.z.Sugar().Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.z.Sugar().Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.z.Sugar().Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.z.Sugar().Errorf(format, args...)
}

// WithRequestID creates a logger that tags every entry with a correlation id.
func WithRequestID(category Category, requestID string) *Logger {
	return Get(category).With(zap.String("req", requestID))
}

// CloseAll flushes and closes the log file (call at shutdown)
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	_ = base.Sync()
	if closeFn != nil {
		closeFn()
		closeFn = nil
	}
	base = zap.NewNop()
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

func Desktop(format string, args ...interface{})      { Get(CategoryDesktop).Info(format, args...) }
func DesktopDebug(format string, args ...interface{}) { Get(CategoryDesktop).Debug(format, args...) }

func WindowDebug(format string, args ...interface{}) { Get(CategoryWindow).Debug(format, args...) }

func Files(format string, args ...interface{})      { Get(CategoryFiles).Info(format, args...) }
func FilesDebug(format string, args ...interface{}) { Get(CategoryFiles).Debug(format, args...) }

func Agent(format string, args ...interface{})      { Get(CategoryAgent).Info(format, args...) }
func AgentDebug(format string, args ...interface{}) { Get(CategoryAgent).Debug(format, args...) }
func AgentWarn(format string, args ...interface{})  { Get(CategoryAgent).Warn(format, args...) }
func AgentError(format string, args ...interface{}) { Get(CategoryAgent).Error(format, args...) }

func LLM(format string, args ...interface{})      { Get(CategoryLLM).Info(format, args...) }
func LLMDebug(format string, args ...interface{}) { Get(CategoryLLM).Debug(format, args...) }
func LLMError(format string, args ...interface{}) { Get(CategoryLLM).Error(format, args...) }

func RenderDebug(format string, args ...interface{}) { Get(CategoryRender).Debug(format, args...) }

func Browser(format string, args ...interface{})      { Get(CategoryBrowser).Info(format, args...) }
func BrowserDebug(format string, args ...interface{}) { Get(CategoryBrowser).Debug(format, args...) }
func BrowserError(format string, args ...interface{}) { Get(CategoryBrowser).Error(format, args...) }

func Metrics(format string, args ...interface{}) { Get(CategoryMetrics).Info(format, args...) }

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
