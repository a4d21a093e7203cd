// Package config loads the immutable application configuration. It is built
// once at process start and passed by reference to every component that needs
// it; nothing in here is mutated afterwards.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment selects the report store backend.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config holds all application configuration.
type Config struct {
	Env      string   `mapstructure:"env"`
	Logging  Logging  `mapstructure:"logging"`
	Feeds    Feeds    `mapstructure:"feeds"`
	Analysis Analysis `mapstructure:"analysis"`
	Storage  Storage  `mapstructure:"storage"`
	Server   Server   `mapstructure:"server"`
}

// Logging holds logging configuration.
type Logging struct {
	Level string `mapstructure:"level"`
}

// Feeds holds feed ingestion configuration.
type Feeds struct {
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Analysis holds analysis service (LLM) configuration.
type Analysis struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float32       `mapstructure:"temperature"`
	Research    bool          `mapstructure:"research"`
}

// Storage holds report store configuration.
type Storage struct {
	LocalDir   string `mapstructure:"local_dir"`
	BlobToken  string `mapstructure:"blob_token"`
	BlobAPIURL string `mapstructure:"blob_api_url"`
}

// Server holds HTTP server configuration.
type Server struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CronSecret   string        `mapstructure:"cron_secret"`
	CronSchedule string        `mapstructure:"cron_schedule"`
}

// Load reads configuration from escmon.yaml (optional), the environment, and
// built-in defaults, in ascending priority of env over file over defaults.
func Load(cfgFile string) (*Config, error) {
	// .env files are a local convenience; missing files are fine.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	bindEnvironment(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("escmon")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.escmon")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvLocal)
	v.SetDefault("logging.level", "info")

	v.SetDefault("feeds.max_concurrency", 2)
	v.SetDefault("feeds.timeout", "20s")

	v.SetDefault("analysis.model", "gemini-2.5-flash")
	v.SetDefault("analysis.timeout", "120s")
	v.SetDefault("analysis.temperature", 0.0)
	v.SetDefault("analysis.research", true)

	v.SetDefault("storage.local_dir", "reports")
	v.SetDefault("storage.blob_api_url", "https://blob.vercel-storage.com")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.cron_schedule", "0 6 * * *")
}

func bindEnvironment(v *viper.Viper) {
	v.SetEnvPrefix("ESCMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known variable names take precedence over the prefixed forms.
	bindEnvKeys(v, "env", "ESCMON_ENV", "ENVIRONMENT")
	bindEnvKeys(v, "analysis.api_key", "GEMINI_API_KEY", "GOOGLE_GEMINI_API_KEY", "GOOGLE_AI_API_KEY")
	bindEnvKeys(v, "storage.blob_token", "BLOB_READ_WRITE_TOKEN")
	bindEnvKeys(v, "server.cron_secret", "CRON_SECRET")
}

func bindEnvKeys(v *viper.Viper, configKey string, envKeys ...string) {
	args := append([]string{configKey}, envKeys...)
	_ = v.BindEnv(args...)
}

func validate(cfg *Config) error {
	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("invalid env %q: must be %s, %s or %s", cfg.Env, EnvLocal, EnvDev, EnvProd)
	}

	if cfg.Env != EnvLocal && cfg.Storage.BlobToken == "" {
		return fmt.Errorf("env %q requires BLOB_READ_WRITE_TOKEN", cfg.Env)
	}

	if cfg.Feeds.MaxConcurrency < 1 {
		return fmt.Errorf("feeds.max_concurrency must be at least 1")
	}

	return nil
}
