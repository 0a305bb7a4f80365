package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Scrapers   ScrapersConfig   `mapstructure:"scrapers"`
	Search     SearchConfig     `mapstructure:"search"`
	Downloader DownloaderConfig `mapstructure:"downloader"`
	Watch      WatchConfig      `mapstructure:"watch"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// LLMConfig holds text-generation backend configuration.
type LLMConfig struct {
	Host           string  `mapstructure:"host"`
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// ScrapersConfig holds content source configuration.
type ScrapersConfig struct {
	Enabled        []string `mapstructure:"enabled"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	UserAgent      string   `mapstructure:"user_agent"`
	PirateBayURL   string   `mapstructure:"piratebay_url"`
	YTSURL         string   `mapstructure:"yts_url"`
}

// SearchConfig holds orchestration thresholds.
type SearchConfig struct {
	MaxResults     int     `mapstructure:"max_results"`
	MinConfidence  float64 `mapstructure:"min_confidence"`
	AutoThreshold  float64 `mapstructure:"auto_threshold"`
	AutoDownload   bool    `mapstructure:"auto_download"`
	PartialResults bool    `mapstructure:"partial_results"`
}

// DownloaderConfig holds download client configuration.
type DownloaderConfig struct {
	Type        string `mapstructure:"type"` // transmission, rqbit, mock
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	UseSSL      bool   `mapstructure:"use_ssl"`
	DownloadDir string `mapstructure:"download_dir"`
}

// WatchConfig holds scheduled re-search configuration.
type WatchConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
	RunOnStart      bool `mapstructure:"run_on_start"`
}

// Default returns a Config with default values.
func Default() *Config {
	cfg := &Config{}
	v := viper.New()
	setDefaults(v)
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.fetcharr")
	}

	v.SetEnvPrefix("FETCHARR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Missing config file is fine, defaults + env vars apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7454)

	v.SetDefault("database.path", "./data/fetcharr.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("llm.host", "http://127.0.0.1:11434")
	v.SetDefault("llm.model", "llama3.1:8b")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout_seconds", 120)

	v.SetDefault("scrapers.enabled", []string{"piratebay", "yts"})
	v.SetDefault("scrapers.timeout_seconds", 30)
	v.SetDefault("scrapers.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("scrapers.piratebay_url", "https://thepiratebay10.info")
	v.SetDefault("scrapers.yts_url", "https://yts.mx/api/v2")

	v.SetDefault("search.max_results", 20)
	v.SetDefault("search.min_confidence", 0.7)
	v.SetDefault("search.auto_threshold", 0.9)
	v.SetDefault("search.auto_download", false)
	v.SetDefault("search.partial_results", false)

	v.SetDefault("downloader.type", "transmission")
	v.SetDefault("downloader.host", "127.0.0.1")
	v.SetDefault("downloader.port", 9091)
	v.SetDefault("downloader.download_dir", "")

	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.interval_minutes", 60)
	v.SetDefault("watch.run_on_start", false)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
