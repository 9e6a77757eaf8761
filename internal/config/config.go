package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log          LogConfig
	Registry     RegistryConfig
	State        StateConfig
	Export       ExportConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Notification NotificationConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// RegistryConfig points the client at the redemption registry.
type RegistryConfig struct {
	Mode    string
	URL     string
	Timeout time.Duration
}

const (
	RegistryModeHTTP  = "http"
	RegistryModeMySQL = "mysql"
)

type StateConfig struct {
	Dir string
}

type ExportConfig struct {
	DownloadDir  string
	ShareCommand string
	ChromeBin    string
	Quality      int
	Background   string
}

type ServerConfig struct {
	Port             int
	LockTimeout      time.Duration
	MaxRetryAttempts int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type NotificationConfig struct {
	Recipient    string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
}

// Load reads configuration from the environment, optionally layered over a
// YAML file when path is non-empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("REGISTRY_MODE", RegistryModeHTTP)
	v.SetDefault("REGISTRY_URL", "")
	v.SetDefault("REGISTRY_TIMEOUT", "20s")
	v.SetDefault("STATE_DIR", filepath.Join(home, ".ordercard"))
	v.SetDefault("DOWNLOAD_DIR", filepath.Join(home, "Downloads"))
	v.SetDefault("SHARE_COMMAND", "")
	v.SetDefault("CHROME_BIN", "")
	v.SetDefault("EXPORT_QUALITY", 95)
	v.SetDefault("EXPORT_BACKGROUND", "#1f2937")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOCK_TIMEOUT", "30s")
	v.SetDefault("MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "ordercard")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "activations")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("NOTIFY_RECIPIENT", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	registryTimeout, err := parseDuration(v, "REGISTRY_TIMEOUT")
	if err != nil {
		return nil, err
	}
	lockTimeout, err := parseDuration(v, "LOCK_TIMEOUT")
	if err != nil {
		return nil, err
	}
	connMaxLifetime, err := parseDuration(v, "DB_CONN_MAX_LIFETIME")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Registry: RegistryConfig{
			Mode:    v.GetString("REGISTRY_MODE"),
			URL:     v.GetString("REGISTRY_URL"),
			Timeout: registryTimeout,
		},
		State: StateConfig{
			Dir: v.GetString("STATE_DIR"),
		},
		Export: ExportConfig{
			DownloadDir:  v.GetString("DOWNLOAD_DIR"),
			ShareCommand: v.GetString("SHARE_COMMAND"),
			ChromeBin:    v.GetString("CHROME_BIN"),
			Quality:      v.GetInt("EXPORT_QUALITY"),
			Background:   v.GetString("EXPORT_BACKGROUND"),
		},
		Server: ServerConfig{
			Port:             v.GetInt("SERVER_PORT"),
			LockTimeout:      lockTimeout,
			MaxRetryAttempts: v.GetInt("MAX_RETRY_ATTEMPTS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Notification: NotificationConfig{
			Recipient:    v.GetString("NOTIFY_RECIPIENT"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUser:     v.GetString("SMTP_USER"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			SMTPFrom:     v.GetString("SMTP_FROM"),
		},
	}

	if cfg.Registry.Mode != RegistryModeHTTP && cfg.Registry.Mode != RegistryModeMySQL {
		return nil, fmt.Errorf("unknown REGISTRY_MODE %q", cfg.Registry.Mode)
	}
	if cfg.Export.Quality < 1 || cfg.Export.Quality > 100 {
		return nil, fmt.Errorf("EXPORT_QUALITY must be between 1 and 100, got %d", cfg.Export.Quality)
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
