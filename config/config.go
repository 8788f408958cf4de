package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListen        = ":8080"
	DefaultDriver        = "sqlite"
	DefaultDSN           = "signage.db"
	DefaultPerMinute     = 120
	DefaultBurst         = 20
	DefaultAuditInterval = 10 * time.Minute
)

type Config struct {
	Listen        string        `yaml:"listen"`
	Database      Database      `yaml:"database"`
	LicensePath   string        `yaml:"license_path"`
	Auth          Auth          `yaml:"auth"`
	RateLimit     RateLimit     `yaml:"rate_limit"`
	S3            S3            `yaml:"s3"`
	AuditInterval time.Duration `yaml:"audit_interval"`
	Log           Log           `yaml:"log"`
}

type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Auth struct {
	Secret  string `yaml:"secret"`
	JWKSURL string `yaml:"jwks_url"`
	Issuer  string `yaml:"issuer"`
}

// RateLimit is applied per authenticated user. A non-positive PerMinute disables it.
type RateLimit struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// S3 holds the asset bucket. Asset endpoints are disabled when Bucket is empty.
type S3 struct {
	Profile string `yaml:"profile"`
	Bucket  string `yaml:"bucket"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Listen: DefaultListen,
		Database: Database{
			Driver: DefaultDriver,
			DSN:    DefaultDSN,
		},
		RateLimit: RateLimit{
			PerMinute: DefaultPerMinute,
			Burst:     DefaultBurst,
		},
		AuditInterval: DefaultAuditInterval,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path, if given, over the defaults and then applies SIGNAGE_*
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Listen, "SIGNAGE_LISTEN")
	setString(&c.Database.Driver, "SIGNAGE_DB_DRIVER")
	setString(&c.Database.DSN, "SIGNAGE_DB_DSN")
	setString(&c.LicensePath, "SIGNAGE_LICENSE_PATH")
	setString(&c.Auth.Secret, "SIGNAGE_AUTH_SECRET")
	setString(&c.Auth.JWKSURL, "SIGNAGE_AUTH_JWKS_URL")
	setString(&c.Auth.Issuer, "SIGNAGE_AUTH_ISSUER")
	setString(&c.S3.Profile, "SIGNAGE_AWS_PROFILE")
	setString(&c.S3.Bucket, "SIGNAGE_S3_BUCKET")
	setString(&c.Log.Level, "SIGNAGE_LOG_LEVEL")
	setString(&c.Log.Format, "SIGNAGE_LOG_FORMAT")

	if err := setInt(&c.RateLimit.PerMinute, "SIGNAGE_RATE_LIMIT_PER_MINUTE"); err != nil {
		return err
	}
	if err := setInt(&c.RateLimit.Burst, "SIGNAGE_RATE_LIMIT_BURST"); err != nil {
		return err
	}

	if v := os.Getenv("SIGNAGE_AUDIT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SIGNAGE_AUDIT_INTERVAL %q: %w", v, err)
		}
		c.AuditInterval = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	if c.Auth.Secret == "" && c.Auth.JWKSURL == "" {
		return errors.New("auth.secret or auth.jwks_url is required")
	}
	if c.AuditInterval <= 0 {
		return fmt.Errorf("audit_interval must be positive, got %s", c.AuditInterval)
	}
	return nil
}
