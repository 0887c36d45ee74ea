package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sandeepkv93/dayly/internal/model"
)

const EnvPrefix = "DAYLY"

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type RuntimeConfig struct {
	StorageBackend       string
	StoragePath          string
	SummaryInterval      time.Duration
	SummaryAt            string
	DesktopNotifications bool
	SchedulerBuffer      int
	LogLevel             string
	LogFormat            string
	LogFile              string
	HTTPAddr             string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StorageBackend:       BackendSQLite,
		StoragePath:          "",
		SummaryInterval:      24 * time.Hour,
		SummaryAt:            "",
		DesktopNotifications: false,
		SchedulerBuffer:      64,
		LogLevel:             "info",
		LogFormat:            "text",
		LogFile:              "",
		HTTPAddr:             ":8080",
	}
}

// DefaultConfigPath is ~/.config/dayly/config.yaml, or ./config.yaml when
// no home directory is available.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(dir, "dayly", "config.yaml")
}

// Load layers defaults, the optional YAML file at path, and DAYLY_*
// environment variables. A missing file is not an error.
func Load(path string) (RuntimeConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultRuntimeConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			var pathErr *os.PathError
			if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
				return RuntimeConfig{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := RuntimeConfig{
		StorageBackend:       strings.ToLower(strings.TrimSpace(v.GetString("storage.backend"))),
		StoragePath:          strings.TrimSpace(v.GetString("storage.path")),
		SummaryInterval:      v.GetDuration("summary.interval"),
		SummaryAt:            strings.TrimSpace(v.GetString("summary.at")),
		DesktopNotifications: v.GetBool("notifications.desktop"),
		SchedulerBuffer:      v.GetInt("scheduler.buffer"),
		LogLevel:             strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		LogFormat:            strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		LogFile:              strings.TrimSpace(v.GetString("log.file")),
		HTTPAddr:             strings.TrimSpace(v.GetString("http.addr")),
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = DefaultStoragePath(cfg.StorageBackend)
	}
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d RuntimeConfig) {
	v.SetDefault("storage.backend", d.StorageBackend)
	v.SetDefault("storage.path", d.StoragePath)
	v.SetDefault("summary.interval", d.SummaryInterval.String())
	v.SetDefault("summary.at", d.SummaryAt)
	v.SetDefault("notifications.desktop", d.DesktopNotifications)
	v.SetDefault("scheduler.buffer", d.SchedulerBuffer)
	v.SetDefault("log.level", d.LogLevel)
	v.SetDefault("log.format", d.LogFormat)
	v.SetDefault("log.file", d.LogFile)
	v.SetDefault("http.addr", d.HTTPAddr)
}

func DefaultStoragePath(backend string) string {
	if backend == BackendFile {
		return ".dayly_state.json"
	}
	return "dayly.db"
}

func (c RuntimeConfig) Validate() error {
	switch c.StorageBackend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("%w: storage.backend %q (want sqlite or file)", ErrInvalidConfig, c.StorageBackend)
	}
	if c.SummaryInterval <= 0 {
		return fmt.Errorf("%w: summary.interval must be positive", ErrInvalidConfig)
	}
	if c.SummaryAt != "" {
		if _, err := model.ParseClock(c.SummaryAt); err != nil {
			return fmt.Errorf("%w: summary.at: %v", ErrInvalidConfig, err)
		}
	}
	if c.SchedulerBuffer <= 0 {
		return fmt.Errorf("%w: scheduler.buffer must be positive", ErrInvalidConfig)
	}
	return nil
}

// SummaryClock reports the configured daily alignment, if any.
func (c RuntimeConfig) SummaryClock() (model.ClockTime, bool) {
	if c.SummaryAt == "" {
		return model.ClockTime{}, false
	}
	at, err := model.ParseClock(c.SummaryAt)
	if err != nil {
		return model.ClockTime{}, false
	}
	return at, true
}
