package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server   Server   `mapstructure:"server"`
	Auth     Auth     `mapstructure:"auth"`
	Vault    Vault    `mapstructure:"vault"`
	Redis    Redis    `mapstructure:"redis"`
	Postgres Postgres `mapstructure:"postgres"`
	Log      Log      `mapstructure:"log"`
	Genesis  Genesis  `mapstructure:"genesis"`
}

// Server configuration
type Server struct {
	Port      string  `mapstructure:"port"`
	RateLimit float64 `mapstructure:"rateLimit"`
	Burst     int     `mapstructure:"burst"`
}

// Auth configuration for signed requests
type Auth struct {
	HMACSecret         string        `mapstructure:"hmacSecret"`
	TimestampTolerance time.Duration `mapstructure:"timestampTolerance"`
}

// Vault configuration
type Vault struct {
	Owner           string `mapstructure:"owner"`
	Custody         string `mapstructure:"custody"`
	JournalCapacity int    `mapstructure:"journalCapacity"`
}

// Redis event publisher configuration
type Redis struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	Channel string        `mapstructure:"channel"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Postgres event journal configuration
type Postgres struct {
	Enabled      bool          `mapstructure:"enabled"`
	DSN          string        `mapstructure:"dsn"`
	QueryTimeout time.Duration `mapstructure:"queryTimeout"`
}

// Log configuration
type Log struct {
	Level string `mapstructure:"level"`
}

// Genesis configuration
type Genesis struct {
	Path string `mapstructure:"path"`
}

// LoadConfig loads configuration from YAML files in configDir.
// Uses CONFIG_ENV environment variable to determine which overlay file to load
func LoadConfig(configDir string) (*Config, error) {
	v := viper.New()

	configEnv := os.Getenv("CONFIG_ENV")
	if configEnv == "" {
		configEnv = "local"
	}

	// Load base app-config.yaml as template/defaults (if it exists)
	baseConfigPath := fmt.Sprintf("%s/app-config.yaml", configDir)
	baseConfigExists := false
	if _, err := os.Stat(baseConfigPath); err == nil {
		v.SetConfigFile(baseConfigPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read base config file: %w", err)
		}
		baseConfigExists = true
	}

	// Load environment-specific config (e.g., local.yaml when CONFIG_ENV=local)
	envConfigPath := fmt.Sprintf("%s/%s.yaml", configDir, configEnv)
	if _, err := os.Stat(envConfigPath); err == nil {
		v.SetConfigFile(envConfigPath)
		if baseConfigExists {
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to merge env config file: %w", err)
			}
		} else if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read env config file: %w", err)
		}
	}

	v.SetEnvPrefix("VAULT")
	v.AutomaticEnv()

	bindings := map[string][]string{
		"server.port":             {"VAULT_SERVER_PORT", "PORT"},
		"server.rateLimit":        {"VAULT_SERVER_RATE_LIMIT"},
		"server.burst":            {"VAULT_SERVER_BURST"},
		"auth.hmacSecret":         {"VAULT_AUTH_HMAC_SECRET", "HMAC_SECRET"},
		"auth.timestampTolerance": {"VAULT_AUTH_TIMESTAMP_TOLERANCE"},
		"vault.owner":             {"VAULT_OWNER"},
		"vault.custody":           {"VAULT_CUSTODY"},
		"vault.journalCapacity":   {"VAULT_JOURNAL_CAPACITY"},
		"redis.enabled":           {"VAULT_REDIS_ENABLED"},
		"redis.addr":              {"VAULT_REDIS_ADDR", "REDIS_ADDR"},
		"redis.channel":           {"VAULT_REDIS_CHANNEL"},
		"redis.timeout":           {"VAULT_REDIS_TIMEOUT"},
		"postgres.enabled":        {"VAULT_POSTGRES_ENABLED"},
		"postgres.dsn":            {"VAULT_POSTGRES_DSN", "DATABASE_URL"},
		"postgres.queryTimeout":   {"VAULT_POSTGRES_QUERY_TIMEOUT"},
		"log.level":               {"VAULT_LOG_LEVEL", "LOG_LEVEL"},
		"genesis.path":            {"VAULT_GENESIS_PATH"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Burst == 0 {
		cfg.Server.Burst = 20
	}
	if cfg.Auth.HMACSecret == "" {
		cfg.Auth.HMACSecret = "default-secret-key-change-in-production"
	}
	if cfg.Auth.TimestampTolerance == 0 {
		cfg.Auth.TimestampTolerance = 5 * time.Minute
	}
	if cfg.Vault.JournalCapacity == 0 {
		cfg.Vault.JournalCapacity = 10000
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = "vault:events"
	}
	if cfg.Redis.Timeout == 0 {
		cfg.Redis.Timeout = 500 * time.Millisecond
	}
	if cfg.Postgres.QueryTimeout == 0 {
		cfg.Postgres.QueryTimeout = time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
