package config

import (
	"errors"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/nagarajRPoojari/applog/storage"
)

const (
	ConfigName = "applog"
	EnvPrefix  = "APPLOG"

	DefaultLogLevel = "warn"
)

type Config struct {
	LineLogPath    string `mapstructure:"line_log_path"`
	RecordLogPath  string `mapstructure:"record_log_path"`
	LineBufferSize int    `mapstructure:"line_buffer_size"`
	PathFieldLen   int    `mapstructure:"path_field_len"`
	MaxPathLen     int    `mapstructure:"max_path_len"`
	LogLevel       string `mapstructure:"log_level"`
}

// Load reads an optional applog.{yaml,json,toml} from searchPaths (default "."
// and "./config"), then applies APPLOG_* environment overrides. A missing file
// is not an error.
func Load(searchPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigName)
	if len(searchPaths) == 0 {
		searchPaths = []string{".", "./config"}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetDefault("line_log_path", storage.DefaultLineLogName)
	v.SetDefault("record_log_path", storage.DefaultRecordLogName)
	v.SetDefault("line_buffer_size", 512)
	v.SetDefault("path_field_len", 512)
	v.SetDefault("max_path_len", 4096)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StorageOpts maps the config onto the log files it names.
func (t *Config) StorageOpts() storage.StorageOpts {
	return storage.StorageOpts{
		LineLogPath:    cleanPath(t.LineLogPath),
		RecordLogPath:  cleanPath(t.RecordLogPath),
		LineBufferSize: t.LineBufferSize,
		PathFieldLen:   t.PathFieldLen,
	}
}

// cleanPath leaves "" alone so storage falls back to its default name,
// filepath.Clean would turn it into ".".
func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}
