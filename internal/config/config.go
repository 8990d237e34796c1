// Package config loads meditime settings from .meditime.yaml, the
// environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/meditime/internal/logger"
	"github.com/hammamikhairi/meditime/internal/notify"
)

// Config file lookup and environment naming.
const (
	FileName      = ".meditime" // .yaml is implicit
	EnvPrefix     = "MEDITIME"
	EnvConfigPath = "MEDITIME_CONFIG_PATH"
)

// Keys understood in the config file. Environment variables use the
// upper-cased key with dots replaced, e.g. MEDITIME_LOG_LEVEL.
const (
	KeyPath         = "path"
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"
	KeyHorizon      = "schedule.horizon"
	KeyHousekeeping = "schedule.housekeeping"
	KeyDesktop      = "notify.desktop"
	KeySound        = "notify.sound"
	KeyBell         = "notify.bell"
)

// LogToStderr as log.file sends the log to the console.
const LogToStderr = "stderr"

// Config is the resolved configuration.
type Config struct {
	Path         string
	LogLevel     logger.Level
	LogFile      string
	Horizon      time.Duration
	Housekeeping time.Duration
	Notify       notify.Settings
	// File is the config file that was read, empty when none was found.
	File string
}

// Option adjusts how Load looks for configuration.
type Option func(*loader)

type loader struct {
	file   string
	dirs   []string
	dotenv bool
}

// WithFile reads exactly this config file instead of searching.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = path
	}
}

// WithSearchPaths replaces the directories searched for .meditime.yaml.
func WithSearchPaths(dirs ...string) Option {
	return func(l *loader) {
		l.dirs = dirs
	}
}

// WithoutDotenv skips loading .env from the working directory.
func WithoutDotenv() Option {
	return func(l *loader) {
		l.dotenv = false
	}
}

// Load resolves the configuration. A missing config file is not an
// error; an unreadable one is.
func Load(opts ...Option) (*Config, error) {
	l := &loader{dotenv: true}
	for _, opt := range opts {
		opt(l)
	}

	if l.dotenv {
		// Missing .env is fine.
		_ = godotenv.Load()
	}

	if l.dirs == nil {
		if override := os.Getenv(EnvConfigPath); override != "" {
			l.dirs = append(l.dirs, override)
		}
		l.dirs = append(l.dirs, "./")
		if home, err := homedir.Dir(); err == nil {
			l.dirs = append(l.dirs, home)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName(FileName)
		for _, dir := range l.dirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPath, "~/.meditime")
	v.SetDefault(KeyLogLevel, "normal")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyHorizon, "24h")
	v.SetDefault(KeyHousekeeping, "15s")
	v.SetDefault(KeyDesktop, true)
	v.SetDefault(KeySound, true)
	v.SetDefault(KeyBell, true)
}

func fromViper(v *viper.Viper) (*Config, error) {
	path, err := homedir.Expand(v.GetString(KeyPath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyPath, err)
	}

	horizon := v.GetDuration(KeyHorizon)
	if horizon <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %q", KeyHorizon, v.GetString(KeyHorizon))
	}
	housekeeping := v.GetDuration(KeyHousekeeping)
	if housekeeping < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %q", KeyHousekeeping, v.GetString(KeyHousekeeping))
	}

	logFile := v.GetString(KeyLogFile)
	switch logFile {
	case "":
		logFile = filepath.Join(path, "meditime.log")
	case LogToStderr:
	default:
		if logFile, err = homedir.Expand(logFile); err != nil {
			return nil, fmt.Errorf("%s: %w", KeyLogFile, err)
		}
	}

	return &Config{
		Path:         path,
		LogLevel:     logger.ParseLevel(v.GetString(KeyLogLevel)),
		LogFile:      logFile,
		Horizon:      horizon,
		Housekeeping: housekeeping,
		Notify: notify.Settings{
			Desktop: v.GetBool(KeyDesktop),
			Sound:   v.GetBool(KeySound),
			Bell:    v.GetBool(KeyBell),
		},
		File: v.ConfigFileUsed(),
	}, nil
}
