// Package config loads service settings from defaults, an optional YAML file
// and the environment, in that order of precedence (last wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"voxscribe/internal/app/util/files"
)

// DefaultConfigFile is read when no path is given and the file exists.
const DefaultConfigFile = "voxscribe.yaml"

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Vendor   VendorConfig   `yaml:"vendor"`
	Poll     PollConfig     `yaml:"poll"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// Addr is host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type VendorConfig struct {
	Name           string `yaml:"name"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	RequestTimeout int    `yaml:"request_timeout"` // seconds
}

type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	// PostgresDSN selects the hosted store. Empty means local only.
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
}

type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

// Enabled reports whether object storage is configured.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != ""
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	Secret string `yaml:"secret"`
	// AllowHeaderUser accepts X-User-ID without a token.
	AllowHeaderUser bool `yaml:"allow_header_user"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8081,
			ReadTimeout:     5 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Vendor: VendorConfig{
			Name:           "assemblyai",
			RequestTimeout: 300,
		},
		Poll: PollConfig{
			Interval: 3 * time.Second,
			Timeout:  10 * time.Minute,
		},
		Database: DatabaseConfig{
			SQLitePath: "data/voxscribe.db",
		},
		Storage: StorageConfig{
			Bucket: "avatars",
		},
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
		Auth: AuthConfig{
			AllowHeaderUser: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// HTTPWriteTimeout is server.write_timeout when set. Otherwise it covers
// the slowest synchronous transcription: upload and submit at the vendor
// request timeout each, then the full poll deadline, plus a minute to
// write the response.
func (c *Config) HTTPWriteTimeout() time.Duration {
	if c.Server.WriteTimeout > 0 {
		return c.Server.WriteTimeout
	}
	vendorCall := time.Duration(c.Vendor.RequestTimeout) * time.Second
	return 2*vendorCall + c.Poll.Timeout + time.Minute
}

// Load builds the configuration. path may be empty, in which case
// DefaultConfigFile is used when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	applyEnv(cfg)
	if p := cfg.Database.SQLitePath; p != "" && p != ":memory:" && !filepath.IsAbs(p) {
		if root, err := files.GetProjectRoot(); err == nil {
			cfg.Database.SQLitePath = filepath.Join(root, p)
		}
	}
	return cfg, nil
}

// vendorKeyEnv names the credential variable of each known vendor.
var vendorKeyEnv = map[string]string{
	"assemblyai": "ASSEMBLYAI_API_KEY",
	"openai":     "OPENAI_API_KEY",
}

// VendorKeyEnv returns the environment variable holding the key of vendor.
func VendorKeyEnv(vendor string) string {
	if env, ok := vendorKeyEnv[vendor]; ok {
		return env
	}
	return "VOXSCRIBE_VENDOR_API_KEY"
}

func applyEnv(cfg *Config) {
	cfg.Vendor.Name = Getenv("VOXSCRIBE_VENDOR", cfg.Vendor.Name)
	cfg.Vendor.APIKey = Getenv(VendorKeyEnv(cfg.Vendor.Name), cfg.Vendor.APIKey)
	cfg.Vendor.BaseURL = Getenv("VOXSCRIBE_VENDOR_BASE_URL", cfg.Vendor.BaseURL)

	cfg.Server.Host = Getenv("VOXSCRIBE_HOST", cfg.Server.Host)
	if port, err := strconv.Atoi(Getenv("PORT", "")); err == nil {
		cfg.Server.Port = port
	}

	cfg.Database.PostgresDSN = Getenv("DATABASE_URL", cfg.Database.PostgresDSN)
	cfg.Database.SQLitePath = Getenv("VOXSCRIBE_SQLITE_PATH", cfg.Database.SQLitePath)

	cfg.Storage.Endpoint = Getenv("MINIO_ENDPOINT", cfg.Storage.Endpoint)
	cfg.Storage.AccessKey = Getenv("MINIO_ACCESS_KEY", cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = Getenv("MINIO_SECRET_KEY", cfg.Storage.SecretKey)
	cfg.Storage.Bucket = Getenv("MINIO_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.PublicURL = Getenv("MINIO_PUBLIC_URL", cfg.Storage.PublicURL)

	cfg.Redis.Addr = Getenv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = Getenv("REDIS_PASSWORD", cfg.Redis.Password)

	cfg.Auth.Secret = Getenv("VOXSCRIBE_AUTH_SECRET", cfg.Auth.Secret)
	cfg.Log.Level = Getenv("LOG_LEVEL", cfg.Log.Level)
}
