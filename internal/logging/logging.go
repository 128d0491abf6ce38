package logging

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

// Logger returns the process-wide logger.
func Logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "assbin",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// SetLevel parses level ("debug", "info", "warn", "error") and applies it.
// Unknown names leave the level unchanged.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger().SetLevel(lvl)
	return nil
}

func Debug(msg string, args ...any) {
	Logger().Debugf(msg, args...)
}

func Info(msg string, args ...any) {
	Logger().Infof(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warnf(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Errorf(msg, args...)
}

func Fatal(msg string, args ...any) {
	Logger().Fatalf(msg, args...)
}
