package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Profile   ProfileConfig   `yaml:"profile" mapstructure:"profile"`
	Analyze   AnalyzeConfig   `yaml:"analyze" mapstructure:"analyze"`
	Upload    UploadConfig    `yaml:"upload" mapstructure:"upload"`
	Retention RetentionConfig `yaml:"retention" mapstructure:"retention"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// StoreConfig configures the task store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // memory, sqlite, postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LLMConfig configures the classification model provider.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // anthropic or openai
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ProfileConfig configures the external user-info enrichment API.
type ProfileConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Host        string `yaml:"host" mapstructure:"host"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the request timeout as a duration.
func (p ProfileConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSecs) * time.Second
}

// AnalyzeConfig configures batching and concurrency for analysis runs.
type AnalyzeConfig struct {
	BatchSize     int     `yaml:"batch_size" mapstructure:"batch_size"`
	MaxWorkers    int     `yaml:"max_workers" mapstructure:"max_workers"`
	SubmitDelayMS int     `yaml:"submit_delay_ms" mapstructure:"submit_delay_ms"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// SubmitDelay returns the inter-batch submission delay as a duration.
func (a AnalyzeConfig) SubmitDelay() time.Duration {
	return time.Duration(a.SubmitDelayMS) * time.Millisecond
}

// UploadConfig configures upload handling and result file placement.
type UploadConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	ResultsDir string `yaml:"results_dir" mapstructure:"results_dir"`
	MaxBytes   int64  `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// RetentionConfig configures time-based task eviction.
type RetentionConfig struct {
	Schedule string `yaml:"schedule" mapstructure:"schedule"` // cron spec
	MaxAgeHr int    `yaml:"max_age_hours" mapstructure:"max_age_hours"`
}

// MaxAge returns the retention window as a duration.
func (r RetentionConfig) MaxAge() time.Duration {
	return time.Duration(r.MaxAgeHr) * time.Hour
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BRANDLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "brandlens.db")
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.model", "claude-haiku-4-5-20251001")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("profile.base_url", "https://tiktok-scraper7.p.rapidapi.com")
	v.SetDefault("profile.host", "tiktok-scraper7.p.rapidapi.com")
	v.SetDefault("profile.timeout_secs", 10)
	v.SetDefault("analyze.batch_size", 35)
	v.SetDefault("analyze.max_workers", 7)
	v.SetDefault("analyze.submit_delay_ms", 1000)
	v.SetDefault("analyze.rate_per_sec", 10)
	v.SetDefault("analyze.rate_burst", 5)
	v.SetDefault("upload.dir", "data/uploads")
	v.SetDefault("upload.results_dir", "data/results")
	v.SetDefault("upload.max_bytes", 50*1024*1024)
	v.SetDefault("retention.schedule", "@hourly")
	v.SetDefault("retention.max_age_hours", 24)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
