package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Profile    ProfileConfig    `mapstructure:"profile"`
	Scanner    ScannerConfig    `mapstructure:"scanner"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher"`
	Reddit     RedditConfig     `mapstructure:"reddit"`
	YouTube    YouTubeConfig    `mapstructure:"youtube"`
	Brave      BraveConfig      `mapstructure:"brave"`
	Mailbox    MailboxConfig    `mapstructure:"mailbox"`
	Gmail      GmailConfig      `mapstructure:"gmail"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Redis      RedisConfig      `mapstructure:"redis"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	// Path is the SQLite file (or ":memory:") when Driver is sqlite
	Path string `mapstructure:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProfileConfig selects the industry profile
type ProfileConfig struct {
	Name string `mapstructure:"name"`
	File string `mapstructure:"file"`
}

// ScannerConfig holds periodic scan configuration
type ScannerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	IntervalMinutes int           `mapstructure:"interval_minutes"`
	Collectors      []string      `mapstructure:"collectors"`
	PostLimit       int           `mapstructure:"post_limit"`
	CheckComments   bool          `mapstructure:"check_comments"`
	RequestDelay    time.Duration `mapstructure:"request_delay"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
}

// DispatcherConfig holds reply dispatcher configuration
type DispatcherConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	BaseDelay    time.Duration `mapstructure:"base_delay"`
	Jitter       time.Duration `mapstructure:"jitter"`
	IdleInterval time.Duration `mapstructure:"idle_interval"`
	PostTimeout  time.Duration `mapstructure:"post_timeout"`
}

// RedditConfig holds Reddit API configuration
type RedditConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	UserAgent    string `mapstructure:"user_agent"`
}

// HasCredentials reports whether replies can be posted to Reddit
func (c RedditConfig) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Username != "" && c.Password != ""
}

// YouTubeConfig holds YouTube Data API configuration
type YouTubeConfig struct {
	APIKey     string `mapstructure:"api_key"`
	MaxResults int64  `mapstructure:"max_results"`
}

// BraveConfig holds Brave Search API configuration
type BraveConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Count   int    `mapstructure:"count"`
}

// MailboxConfig holds the IMAP inbox that receives saved-search alerts
type MailboxConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Folder   string `mapstructure:"folder"`
}

// GmailConfig holds Gmail API configuration used for lead alerts
type GmailConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
	UserEmail    string `mapstructure:"user_email"`
	NotifyTo     string `mapstructure:"notify_to"`
}

// Enabled reports whether Gmail alerts are configured
func (c GmailConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != "" && c.NotifyTo != ""
}

// WebhookConfig holds Slack/Discord webhook configuration
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// RedisConfig holds the optional Redis used for the distributed scan lock
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoadConfig loads configuration from .env, environment variables and config file
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.path", "leads.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("profile.name", "remodeling_colorado")

	v.SetDefault("scanner.enabled", true)
	v.SetDefault("scanner.interval_minutes", 30)
	v.SetDefault("scanner.collectors", []string{"reddit", "competitors", "youtube", "websearch", "mailbox"})
	v.SetDefault("scanner.post_limit", 50)
	v.SetDefault("scanner.check_comments", true)
	v.SetDefault("scanner.request_delay", "2s")
	v.SetDefault("scanner.lock_ttl", "30m")

	v.SetDefault("dispatcher.enabled", true)
	v.SetDefault("dispatcher.base_delay", "5m")
	v.SetDefault("dispatcher.jitter", "60s")
	v.SetDefault("dispatcher.idle_interval", "30s")
	v.SetDefault("dispatcher.post_timeout", "30s")

	v.SetDefault("reddit.user_agent", "social-prospector/1.0")

	v.SetDefault("youtube.max_results", 10)

	v.SetDefault("brave.base_url", "https://api.search.brave.com/res/v1/web/search")
	v.SetDefault("brave.count", 10)

	v.SetDefault("mailbox.enabled", false)
	v.SetDefault("mailbox.host", "imap.gmail.com")
	v.SetDefault("mailbox.port", 993)
	v.SetDefault("mailbox.folder", "INBOX")

	v.SetDefault("webhook.timeout", "10s")
}

func bindEnvVars(v *viper.Viper) {
	bindings := map[string]string{
		"server.port":          "SERVER_PORT",
		"server.read_timeout":  "SERVER_READ_TIMEOUT",
		"server.write_timeout": "SERVER_WRITE_TIMEOUT",

		"database.driver":   "DB_DRIVER",
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USER",
		"database.password": "DB_PASSWORD",
		"database.dbname":   "DB_NAME",
		"database.path":     "DB_PATH",

		"log.level":  "LOG_LEVEL",
		"log.format": "LOG_FORMAT",

		"profile.name": "INDUSTRY_PROFILE",
		"profile.file": "INDUSTRY_PROFILE_FILE",

		"scanner.enabled":          "SCANNER_ENABLED",
		"scanner.interval_minutes": "SCANNER_INTERVAL_MINUTES",

		"dispatcher.enabled":    "DISPATCHER_ENABLED",
		"dispatcher.base_delay": "DISPATCHER_BASE_DELAY",

		"reddit.client_id":     "REDDIT_CLIENT_ID",
		"reddit.client_secret": "REDDIT_CLIENT_SECRET",
		"reddit.username":      "REDDIT_USERNAME",
		"reddit.password":      "REDDIT_PASSWORD",
		"reddit.user_agent":    "REDDIT_USER_AGENT",

		"youtube.api_key": "YOUTUBE_API_KEY",
		"brave.api_key":   "BRAVE_API_KEY",

		"mailbox.enabled":  "MAILBOX_ENABLED",
		"mailbox.host":     "MAILBOX_IMAP_HOST",
		"mailbox.port":     "MAILBOX_IMAP_PORT",
		"mailbox.user":     "MAILBOX_IMAP_USER",
		"mailbox.password": "MAILBOX_IMAP_PASSWORD",

		"gmail.client_id":     "GMAIL_CLIENT_ID",
		"gmail.client_secret": "GMAIL_CLIENT_SECRET",
		"gmail.refresh_token": "GMAIL_REFRESH_TOKEN",
		"gmail.user_email":    "GMAIL_USER_EMAIL",
		"gmail.notify_to":     "NOTIFY_EMAIL",

		"webhook.url": "WEBHOOK_URL",

		"telegram.bot_token": "TELEGRAM_BOT_TOKEN",
		"telegram.chat_id":   "TELEGRAM_CHAT_ID",

		"redis.addr":     "REDIS_ADDR",
		"redis.password": "REDIS_PASSWORD",
		"redis.db":       "REDIS_DB",
	}
	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}
}

// GetDSN returns the database connection string for the configured driver
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch c.Database.Driver {
	case "mysql":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("database host, user, and dbname are required")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Profile.Name == "" && c.Profile.File == "" {
		return fmt.Errorf("profile name or file is required")
	}

	if c.Scanner.IntervalMinutes <= 0 {
		return fmt.Errorf("scanner interval must be greater than 0")
	}

	if c.Dispatcher.BaseDelay < 0 || c.Dispatcher.Jitter < 0 {
		return fmt.Errorf("dispatcher delays must not be negative")
	}
	if c.Dispatcher.IdleInterval <= 0 || c.Dispatcher.PostTimeout <= 0 {
		return fmt.Errorf("dispatcher idle interval and post timeout must be greater than 0")
	}

	if c.Mailbox.Enabled && (c.Mailbox.User == "" || c.Mailbox.Password == "") {
		return fmt.Errorf("IMAP credentials are required when the mailbox collector is enabled")
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}

	return nil
}
