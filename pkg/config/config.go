// Package config resolves proctop settings from defaults, an optional .env
// file, PROCTOP_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	EnvInterval     = "PROCTOP_INTERVAL"
	EnvCurrentTotal = "PROCTOP_CURRENT_TOTAL"
	EnvProcRoot     = "PROCTOP_PROC_ROOT"
	EnvLogLevel     = "PROCTOP_LOG_LEVEL"
	EnvLogFile      = "PROCTOP_LOG_FILE"
)

const (
	FlagInterval     = "interval"
	FlagCurrentTotal = "current-total"
	FlagProcRoot     = "proc-root"
	FlagLogLevel     = "log-level"
	FlagLogFile      = "log-file"
)

// DefaultInterval is the refresh period when nothing else is configured.
const DefaultInterval = time.Second

var (
	// ErrInterval indicates a non-positive or unparsable interval.
	ErrInterval = errors.New("config: interval must be a positive duration")

	// ErrLogLevel indicates a log level slog does not know.
	ErrLogLevel = errors.New("config: unknown log level")

	// ErrValue indicates an environment variable that could not be parsed.
	ErrValue = errors.New("config: invalid value")
)

// Config holds the resolved settings.
type Config struct {
	Interval     time.Duration
	CurrentTotal bool
	ProcRoot     string // empty means /proc
	LogLevel     string
	LogFile      string // empty means stderr, or discard in the TUI
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Interval: DefaultInterval,
		LogLevel: "info",
	}
}

// Load starts from Default, loads envFile into the environment (or ./.env
// when envFile is empty, if it exists) and applies PROCTOP_* variables.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	c := Default()
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup(EnvInterval); ok {
		d, err := parseInterval(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvInterval, err)
		}
		c.Interval = d
	}
	if v, ok := lookup(EnvCurrentTotal); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrValue, EnvCurrentTotal, v)
		}
		c.CurrentTotal = b
	}
	if v, ok := lookup(EnvProcRoot); ok {
		c.ProcRoot = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.LogFile = v
	}
	return nil
}

// parseInterval accepts a Go duration ("500ms") or a bare number of seconds.
func parseInterval(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrValue, v)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// RegisterFlags defines the flags ApplyFlags reads.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.DurationP(FlagInterval, "i", DefaultInterval, "sampling interval (e.g. 1s, 500ms)")
	fs.Bool(FlagCurrentTotal, false, "report CPU% as a share of the interval's active time instead of scaling by overall load")
	fs.String(FlagProcRoot, "", "procfs mount point (default /proc)")
	fs.String(FlagLogLevel, "info", "log level: debug, info, warn, error")
	fs.String(FlagLogFile, "", "write logs to this file")
}

// ApplyFlags overrides c with every flag set explicitly on the command line.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	if fs.Changed(FlagInterval) {
		if c.Interval, err = fs.GetDuration(FlagInterval); err != nil {
			return err
		}
	}
	if fs.Changed(FlagCurrentTotal) {
		if c.CurrentTotal, err = fs.GetBool(FlagCurrentTotal); err != nil {
			return err
		}
	}
	if fs.Changed(FlagProcRoot) {
		if c.ProcRoot, err = fs.GetString(FlagProcRoot); err != nil {
			return err
		}
	}
	if fs.Changed(FlagLogLevel) {
		if c.LogLevel, err = fs.GetString(FlagLogLevel); err != nil {
			return err
		}
	}
	if fs.Changed(FlagLogFile) {
		if c.LogFile, err = fs.GetString(FlagLogFile); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInterval, c.Interval)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrLogLevel, c.LogLevel)
	}
	return l, nil
}
