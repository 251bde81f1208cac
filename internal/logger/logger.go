// Package logger wraps zerolog with occtl's console and rotating-file outputs.
// Until Init or InitWithFile is called, Log discards everything, so library
// packages can log unconditionally.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger instance
	Log = zerolog.Nop()

	// fileWriter is the file output for logging (with rotation)
	fileWriter *lumberjack.Logger
)

// FileName is the log file name inside the logs directory.
const FileName = "occtl.log"

// LoggingConfig holds the rotation settings for file logging.
// Zero values fall back to defaults.
type LoggingConfig struct {
	FileEnabled bool
	MaxSizeMB   int
	MaxAgeDays  int
	MaxBackups  int
}

// GetMaxSizeMB returns the max size in MB, defaulting to 10 if not set.
func (c *LoggingConfig) GetMaxSizeMB() int {
	if c.MaxSizeMB <= 0 {
		return 10
	}
	return c.MaxSizeMB
}

// GetMaxAgeDays returns the max age in days, defaulting to 7 if not set.
func (c *LoggingConfig) GetMaxAgeDays() int {
	if c.MaxAgeDays <= 0 {
		return 7
	}
	return c.MaxAgeDays
}

// GetMaxBackups returns the max backups, defaulting to 3 if not set.
func (c *LoggingConfig) GetMaxBackups() int {
	if c.MaxBackups <= 0 {
		return 3
	}
	return c.MaxBackups
}

// Init initializes console-only logging on stderr.
func Init(debug bool) {
	Log = newLogger(consoleWriter(os.Stderr), debug)
}

// InitWithWriter initializes logging to w without timestamps or colors.
// Used by tests that assert on log output.
func InitWithWriter(w io.Writer, debug bool) {
	Log = zerolog.New(w).Level(level(debug))
}

// InitWithFile initializes console logging plus a rotating JSON log file in logsDir.
// If logsDir is empty or cfg disables file logging, this behaves like Init.
func InitWithFile(debug bool, logsDir string, cfg *LoggingConfig) error {
	if logsDir == "" || cfg == nil || !cfg.FileEnabled {
		Init(debug)
		return nil
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, FileName),
		MaxSize:    cfg.GetMaxSizeMB(),
		MaxAge:     cfg.GetMaxAgeDays(),
		MaxBackups: cfg.GetMaxBackups(),
		LocalTime:  true,
	}

	// Console gets the human-readable format, the file gets JSON.
	Log = newLogger(io.MultiWriter(consoleWriter(os.Stderr), fileWriter), debug)
	return nil
}

// CloseFileWriter closes the file writer if it exists.
func CloseFileWriter() error {
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	return err
}

// GetLogFilePath returns the current log file, or "" when file logging is disabled.
func GetLogFilePath() string {
	if fileWriter != nil {
		return fileWriter.Filename
	}
	return ""
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	return zerolog.New(w).Level(level(debug)).With().Timestamp().Logger()
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event { return Log.Debug() }

// Info starts an info-level event.
func Info() *zerolog.Event { return Log.Info() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return Log.Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return Log.Error() }
