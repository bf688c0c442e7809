package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Name is used for the config file name and the default config directory.
const Name = "rndc-gateway"

// Config is the process configuration. Environment variables override the
// config file; nested keys map to underscores (pg.host -> PG_HOST).
type Config struct {
	Addr     string `mapstructure:"addr"`
	AppEnv   string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	PG     PostgresConfig `mapstructure:"pg"`
	Redis  RedisConfig    `mapstructure:"redis"`
	JWT    JWTConfig      `mapstructure:"jwt"`
	CORS   CORSConfig     `mapstructure:"cors"`
	Upload UploadConfig   `mapstructure:"upload"`
	Rate   RateConfig     `mapstructure:"rate"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	DB       string `mapstructure:"db"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds the postgres URL understood by both lib/pq and pgx.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DB,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig selects the shared cache. An empty Host keeps the in-memory one.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c RedisConfig) Addr() string { return c.Host + ":" + c.Port }

// JWTConfig enables bearer authentication on /api/v1 when Secret is set.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// RateConfig is the per-client limit on upload endpoints.
type RateConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "")

	v.SetDefault("pg.host", "localhost")
	v.SetDefault("pg.port", "5432")
	v.SetDefault("pg.user", "postgres")
	v.SetDefault("pg.db", "rndc")
	v.SetDefault("pg.password", "")
	v.SetDefault("pg.sslmode", "disable")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", Name)

	v.SetDefault("cors.origins", []string{"https://*", "http://localhost:5173"})
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("rate.per_second", 1.0)
	v.SetDefault("rate.burst", 5)
}

// Load reads configFile when given, otherwise looks for rndc-gateway.{yaml,json,toml}
// in the working directory and /etc/rndc-gateway. A missing file is not an error.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/" + Name)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("invalid configuration file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if cfg.Upload.MaxBytes <= 0 {
		return Config{}, fmt.Errorf("upload.max_bytes must be positive")
	}
	return cfg, nil
}
