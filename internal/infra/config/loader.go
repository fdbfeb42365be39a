package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"versa/internal/domain"
	"versa/internal/infra/envexpand"
)

// EnvPrefix scopes environment overrides, e.g. VERSA_LISTENADDRESS.
const EnvPrefix = "VERSA"

// DefaultHistoryPath places the history database under the user's XDG data
// directory.
func DefaultHistoryPath() string {
	return filepath.Join(xdg.DataHome, "versa", domain.DefaultHistoryPath)
}

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("config")}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalogPath", "")
	v.SetDefault("watchCatalog", domain.DefaultWatchCatalog)
	v.SetDefault("historyPath", DefaultHistoryPath())
	v.SetDefault("listenAddress", domain.DefaultListenAddress)
	v.SetDefault("metrics.enabled", domain.DefaultMetricsEnabled)
	v.SetDefault("healthz.enabled", domain.DefaultHealthzEnabled)
	v.SetDefault("stageDelay.minMillis", domain.DefaultStageDelayMinMillis)
	v.SetDefault("stageDelay.maxMillis", domain.DefaultStageDelayMaxMillis)
	v.SetDefault("strictSettings", domain.DefaultStrictSettings)
	v.SetDefault("taskTTLSeconds", domain.DefaultTaskTTLSeconds)
	v.SetDefault("taskListLimit", domain.DefaultTaskListLimit)
}

type rawConfig struct {
	CatalogPath    string        `mapstructure:"catalogPath"`
	WatchCatalog   bool          `mapstructure:"watchCatalog"`
	HistoryPath    string        `mapstructure:"historyPath"`
	ListenAddress  string        `mapstructure:"listenAddress"`
	Metrics        rawToggle     `mapstructure:"metrics"`
	Healthz        rawToggle     `mapstructure:"healthz"`
	StageDelay     rawStageDelay `mapstructure:"stageDelay"`
	StrictSettings bool          `mapstructure:"strictSettings"`
	TaskTTLSeconds int           `mapstructure:"taskTTLSeconds"`
	TaskListLimit  int           `mapstructure:"taskListLimit"`
}

type rawToggle struct {
	Enabled bool `mapstructure:"enabled"`
}

type rawStageDelay struct {
	MinMillis int `mapstructure:"minMillis"`
	MaxMillis int `mapstructure:"maxMillis"`
}

// Load reads the service configuration. An empty path yields defaults
// plus environment overrides.
func (l *Loader) Load(ctx context.Context, path string) (domain.Config, error) {
	var data []byte
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return domain.Config{}, fmt.Errorf("read config: %w", err)
		}
		data = raw
	}
	return l.Parse(ctx, path, data)
}

// Parse decodes a YAML config document after ${VAR} expansion.
func (l *Loader) Parse(ctx context.Context, source string, data []byte) (domain.Config, error) {
	expanded, missing, err := envexpand.YAML(data)
	if err != nil {
		return domain.Config{}, err
	}
	if len(missing) > 0 {
		l.logger.Warn("missing environment variables in config", zap.String("path", source), zap.Strings("missing", missing))
	}

	v := newViper()
	if strings.TrimSpace(expanded) != "" {
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return domain.Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return domain.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	cfg := normalize(raw)
	if errs := Validate(cfg); len(errs) > 0 {
		return domain.Config{}, errors.New(strings.Join(errs, "; "))
	}
	return cfg, nil
}

func normalize(raw rawConfig) domain.Config {
	return domain.Config{
		CatalogPath:    strings.TrimSpace(raw.CatalogPath),
		WatchCatalog:   raw.WatchCatalog,
		HistoryPath:    strings.TrimSpace(raw.HistoryPath),
		ListenAddress:  strings.TrimSpace(raw.ListenAddress),
		Metrics:        raw.Metrics.Enabled,
		Healthz:        raw.Healthz.Enabled,
		StageDelay:     domain.StageDelay{MinMillis: raw.StageDelay.MinMillis, MaxMillis: raw.StageDelay.MaxMillis},
		StrictSettings: raw.StrictSettings,
		TaskTTLSeconds: raw.TaskTTLSeconds,
		TaskListLimit:  raw.TaskListLimit,
	}
}

// Validate returns every problem found in cfg.
func Validate(cfg domain.Config) []string {
	var errs []string
	if cfg.ListenAddress == "" {
		errs = append(errs, "listenAddress is required")
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, fmt.Sprintf("listenAddress %q must be host:port", cfg.ListenAddress))
	}
	if cfg.StageDelay.MinMillis < 0 || cfg.StageDelay.MaxMillis < 0 {
		errs = append(errs, "stageDelay values must be >= 0")
	}
	if cfg.StageDelay.MinMillis > cfg.StageDelay.MaxMillis {
		errs = append(errs, "stageDelay.minMillis must be <= stageDelay.maxMillis")
	}
	if cfg.TaskTTLSeconds < 0 {
		errs = append(errs, "taskTTLSeconds must be >= 0")
	}
	if cfg.TaskListLimit <= 0 {
		errs = append(errs, "taskListLimit must be > 0")
	}
	if cfg.WatchCatalog && cfg.CatalogPath == "" {
		errs = append(errs, "watchCatalog requires catalogPath")
	}
	return errs
}
