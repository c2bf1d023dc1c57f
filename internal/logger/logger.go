// Package logger provides diagnostics for topicchat.
//
// When verbose mode is enabled via the --verbose flag, messages are printed
// to stderr to help users follow topic loading, selection and questions.
// Independently of verbose mode, a rotating JSON log file can be attached
// with SetFile; every message is then also written there.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	file    *zap.Logger
	rotator *lumberjack.Logger
)

// FileConfig configures the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. The TUI points it at io.Discard.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetFile attaches a rotating JSON log file. Any previously attached file
// is closed first. An empty path detaches the file.
func SetFile(cfg FileConfig) error {
	mu.Lock()
	defer mu.Unlock()

	if err := closeFileLocked(); err != nil {
		return err
	}
	if cfg.Path == "" {
		return nil
	}

	rotator = &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.DebugLevel,
	)
	// Skip the package-level helpers so the caller field points at the call site.
	file = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
	return nil
}

// Close flushes and detaches the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeFileLocked()
}

func closeFileLocked() error {
	if file == nil {
		return nil
	}
	_ = file.Sync()
	err := rotator.Close()
	file = nil
	rotator = nil
	return err
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	emit(zapcore.DebugLevel, "[DEBUG] "+msg, msg)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	emit(zapcore.DebugLevel, "\n=== "+name+" ===", "=== "+name+" ===")
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	emit(zapcore.InfoLevel, "[INFO] "+msg, msg)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	emit(zapcore.WarnLevel, "[WARN] "+msg, msg)
}

// Error prints an error message if verbose mode is enabled.
func Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	emit(zapcore.ErrorLevel, "[ERROR] "+msg, msg)
}

// emit writes line to the verbose output and msg to the log file.
func emit(level zapcore.Level, line, msg string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintln(output, line)
	}
	if file != nil {
		if ce := file.Check(level, msg); ce != nil {
			ce.Write()
		}
	}
}
