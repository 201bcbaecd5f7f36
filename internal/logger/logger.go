// Package logger writes noor's diagnostic log. Records go to a rotated file
// under the config directory and, with --debug, to stderr as well.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/noor/internal/constants"
)

// Logger is the process-wide logger. It stays nil until Init succeeds and
// the helpers below drop records until then.
var Logger *log.Logger

// Config selects where the log goes and how it rotates. Zero rotation
// fields fall back to the constants package defaults.
type Config struct {
	Debug bool

	// Dir holds the log files; empty means <ConfigDir>/logs
	Dir string

	ConfigDir string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func (c Config) logDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(c.ConfigDir, constants.LogDirName)
}

// rotation builds the lumberjack writer for c
func (c Config) rotation() *lumberjack.Logger {
	w := &lumberjack.Logger{
		Filename:   filepath.Join(c.logDir(), constants.AppName+".log"),
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   true,
	}
	if w.MaxSize <= 0 {
		w.MaxSize = constants.DefaultLogMaxSizeMB
	}
	if w.MaxBackups <= 0 {
		w.MaxBackups = constants.DefaultLogMaxBackups
	}
	if w.MaxAge <= 0 {
		w.MaxAge = constants.DefaultLogMaxAgeDays
	}
	return w
}

// Init replaces Logger. Only warnings and errors are kept unless Debug is set.
func Init(cfg Config) error {
	if err := os.MkdirAll(cfg.logDir(), 0755); err != nil {
		return err
	}

	var out io.Writer = cfg.rotation()
	level := log.WarnLevel
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, out)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(out, log.Options{
		Prefix:          constants.AppName,
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs msg and exits with status 1
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
