// Package config loads memory-bank settings from an optional YAML file,
// MEMORY_BANK_* environment variables and built-in defaults.
package config

import (
	stderrors "errors"
	"net"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/reputable-tech/memory-bank/internal/errors"
)

// EnvPrefix is prepended to every environment variable override
const EnvPrefix = "MEMORY_BANK"

// Config represents the memory-bank configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server" json:"server"`
	Library LibraryConfig `mapstructure:"library" json:"library"`
	Log     LogConfig     `mapstructure:"log" json:"log"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host" json:"host"`
	Port         int           `mapstructure:"port" json:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" json:"idle_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins" json:"cors_origins"`
}

// LibraryConfig points at the template, domain and guide directories
type LibraryConfig struct {
	Root            string `mapstructure:"root" json:"root"`
	DomainsRoot     string `mapstructure:"domains_root" json:"domains_root"`
	GuideRoot       string `mapstructure:"guide_root" json:"guide_root"`
	LoadConcurrency int    `mapstructure:"load_concurrency" json:"load_concurrency"`
}

// LogConfig represents logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Addr returns the host:port the server listens on
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads the configuration. An empty path searches for memory-bank.yaml in
// the working directory and falls back to defaults when none exists; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("memory-bank")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to read config file.").
				WithContext("path", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to decode configuration.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeConfigInvalid, "Invalid configuration: "+err.Error())
	}

	return &cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("library.root", ".cursor/memory-bank")
	v.SetDefault("library.domains_root", "app/libraries/data")
	v.SetDefault("library.guide_root", "guide")
	v.SetDefault("library.load_concurrency", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate implements validation.Validatable
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Library),
		validation.Field(&c.Log),
	)
}

// Validate implements validation.Validatable
func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ReadTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.WriteTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.IdleTimeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

// Validate implements validation.Validatable
func (c LibraryConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.DomainsRoot, validation.Required),
		validation.Field(&c.GuideRoot, validation.Required),
		validation.Field(&c.LoadConcurrency, validation.Required, validation.Min(1), validation.Max(256)),
	)
}

// Validate implements validation.Validatable
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("console", "json")),
	)
}
