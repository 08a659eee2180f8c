package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the explicit configuration object built once in main and
// injected into every component that needs it.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Picking  PickingConfig  `toml:"picking"`
	Redis    RedisConfig    `toml:"redis"`
	Minio    MinioConfig    `toml:"minio"`
}

type ServerConfig struct {
	Port int `toml:"port"`
}

type DatabaseConfig struct {
	URL string `toml:"url"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	TokenTTLSeconds int    `toml:"token_ttl_seconds"`
}

// PickingConfig locates the upstream CSV export. SourceFile is the fixed
// name the upstream system uses for unconfirmed picking notes.
type PickingConfig struct {
	DataDir               string `toml:"data_dir"`
	SourceFile            string `toml:"source_file"`
	SyncIntervalMinutes   int    `toml:"sync_interval_minutes"`
	SummaryRefreshMinutes int    `toml:"summary_refresh_minutes"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MinioConfig points at the bucket the upstream system drops CSV exports
// into. Sync is disabled when Endpoint is empty.
type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
	Object    string `toml:"object"`
}

const defaultSourceFile = "AURRSGLBD0240 - Unconfirmed Picking Notes.csv"

// Load builds the configuration from defaults, an optional TOML file, and
// environment variable overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{TokenTTLSeconds: 3600},
		Picking: PickingConfig{
			DataDir:               "databases",
			SourceFile:            defaultSourceFile,
			SyncIntervalMinutes:   15,
			SummaryRefreshMinutes: 5,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Picking.SourceFile == "" {
		cfg.Picking.SourceFile = defaultSourceFile
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("PICKING_DATA_DIR"); v != "" {
		c.Picking.DataDir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.Minio.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if os.Getenv("MINIO_USE_SSL") == "true" {
		c.Minio.UseSSL = true
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		c.Minio.Bucket = v
	}
}

// SourcePath is the full path of the picking-notes CSV inside the data dir.
func (c *Config) SourcePath() string {
	return filepath.Join(c.Picking.DataDir, c.Picking.SourceFile)
}
