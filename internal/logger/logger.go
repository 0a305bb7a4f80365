// Package logger builds the application's zerolog logger: console output,
// optional rotating file output, and sane level handling.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "fetcharr.log"

// Config holds logger configuration.
type Config struct {
	Level      string
	Format     string // "console" or "json"
	Path       string // directory for log files; empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger is a zerolog.Logger that owns its file rotator, if any.
type Logger struct {
	zerolog.Logger
	rotator *lumberjack.Logger
}

// New builds the logger. Console goes to stdout, as pretty console output
// unless json format is configured. When Path is set, output is duplicated
// into a size-rotated file under it. Running via "go run" bumps the level to
// debug unless something more verbose was asked for.
func New(cfg Config) *Logger {
	console := consoleWriter(cfg.Format)

	level := parseLevel(cfg.Level)
	if devBuild() && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	out := console
	rotator := fileRotator(cfg)
	if rotator != nil {
		out = io.MultiWriter(console, rotator)
	}

	l := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{Logger: l, rotator: rotator}
}

// Close flushes and closes the rotated log file when file output is enabled.
func (l *Logger) Close() error {
	if l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

func consoleWriter(format string) io.Writer {
	if format == "json" {
		return os.Stdout
	}
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
}

func fileRotator(cfg Config) *lumberjack.Logger {
	if cfg.Path == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		// Console-only is better than no logs at all.
		return nil
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Path, logFileName),
		MaxSize:    orDefault(cfg.MaxSizeMB, 10),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAgeDays, 30),
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// devBuild reports whether the binary was compiled by "go run", whose
// temporary binaries live under a go-build directory.
func devBuild() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return strings.Contains(exe, "go-build")
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
