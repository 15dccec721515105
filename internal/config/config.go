// Package config loads contentcore configuration with viper: an optional
// YAML file plus CONTENTCORE_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Media   MediaConfig   `mapstructure:"media"`
	Gentext GentextConfig `mapstructure:"gentext"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig selects the content store backend.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"`       // memory|sqlite|postgres
	SQLitePath  string `mapstructure:"sqlite_path"`  // sqlite database file
	PostgresDSN string `mapstructure:"postgres_dsn"` // pgx stdlib DSN
}

// MediaConfig selects the asset storage backend.
type MediaConfig struct {
	Driver      string `mapstructure:"driver"` // fs|s3|memory
	FSRoot      string `mapstructure:"fs_root"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3PathStyle bool   `mapstructure:"s3_path_style"`
}

// GentextConfig configures the description generator. With an empty APIKey
// the offline template generator is used.
type GentextConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AuthConfig seeds the static token verifier used in development. Each
// entry maps one bearer token to the identity behind it.
type AuthConfig struct {
	Tokens []TokenConfig `mapstructure:"tokens"`
}

// TokenConfig is one preloaded dev token.
type TokenConfig struct {
	Token string `mapstructure:"token"`
	UID   string `mapstructure:"uid"`
	Email string `mapstructure:"email"`
	Name  string `mapstructure:"name"`
}

// LoggingConfig controls CLI log output.
type LoggingConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from the given YAML file (skipped when path is
// empty and no contentcore.yaml is present) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CONTENTCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv picks it up during Unmarshal.
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "contentcore.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("media.driver", "fs")
	v.SetDefault("media.fs_root", "./mediadata")
	v.SetDefault("media.s3_bucket", "")
	v.SetDefault("media.s3_region", "")
	v.SetDefault("media.s3_endpoint", "")
	v.SetDefault("media.s3_path_style", false)
	v.SetDefault("gentext.api_key", "")
	v.SetDefault("gentext.model", "")
	v.SetDefault("logging.verbose", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("contentcore")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "", "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("storage.driver must be memory, sqlite, or postgres; got %q", c.Storage.Driver)
	}
	switch c.Media.Driver {
	case "", "fs", "s3", "memory":
	default:
		return fmt.Errorf("media.driver must be fs, s3, or memory; got %q", c.Media.Driver)
	}
	if c.Media.Driver == "s3" && c.Media.S3Bucket == "" {
		return fmt.Errorf("media.s3_bucket required for the s3 driver")
	}
	return nil
}
