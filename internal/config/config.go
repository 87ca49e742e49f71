// Package config loads callguard configuration from YAML with environment overrides.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName       = "callguard"
	defaultServiceVersion    = "1.0.0"
	defaultServicePort       = 8090
	defaultConcurrency       = 4
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	defaultClassifierTimeout = 2 * time.Second
	defaultAnthropicModel    = "claude-3-5-haiku-latest"
	defaultEmotionTimeout    = 2 * time.Second
	defaultTurnPolicy        = "drop"
	defaultAlertHistorySize  = 500
	defaultAlertMinLevel     = "MEDIUM"
	defaultAlertQueueSize    = 256
	defaultAlertTimeout      = 5 * time.Second
	defaultStorageTimeout    = 10 * time.Second
	defaultRedisChannel      = "callguard:alerts"
	defaultAMQPQueue         = "callguard.alerts"
	defaultESIndex           = "callguard_turns"
	defaultESMaxRetries      = 3
	defaultDBDriver          = "sqlite3"
	defaultDBDSN             = "callguard.db"
	defaultPyroscopeServer   = "http://pyroscope:4040"
)

// Learned classifier providers.
const (
	ProviderNone      = "none"
	ProviderHTTP      = "http"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for callguard.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Logging    LoggingConfig    `yaml:"logging"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Emotion    EmotionConfig    `yaml:"emotion"`
	Profanity  ProfanityConfig  `yaml:"profanity"`
	Compliance ComplianceConfig `yaml:"compliance"`
	Turns      TurnsConfig      `yaml:"turns"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	Storage    StorageConfig    `yaml:"storage"`
	Auth       AuthConfig       `yaml:"auth"`
	Profiling  ProfilingConfig  `yaml:"profiling"`
}

// ServiceConfig holds service-level settings.
type ServiceConfig struct {
	Name        string  `yaml:"name"`
	Version     string  `yaml:"version"`
	Port        int     `env:"CALLGUARD_PORT"        yaml:"port"`
	Debug       bool    `env:"APP_DEBUG"             yaml:"debug"`
	Concurrency int     `env:"CALLGUARD_CONCURRENCY" yaml:"concurrency"`
	RateLimit   float64 `yaml:"sessions_per_second"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// ClassifierConfig selects the optional learned sentence classifier.
type ClassifierConfig struct {
	Provider        string        `env:"CLASSIFIER_PROVIDER" yaml:"provider"`
	URL             string        `env:"CLASSIFIER_URL"      yaml:"url"`
	Timeout         time.Duration `yaml:"timeout"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"   yaml:"anthropic_api_key"` //nolint:gosec // credential from env
	AnthropicModel  string        `env:"ANTHROPIC_MODEL"     yaml:"anthropic_model"`
}

// EmotionConfig configures the external emotion classifier.
type EmotionConfig struct {
	Enabled bool          `env:"EMOTION_ENABLED" yaml:"enabled"`
	URL     string        `env:"EMOTION_URL"     yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ProfanityConfig tunes the profanity level table.
type ProfanityConfig struct {
	DisabledLevels []string `env:"PROFANITY_DISABLED_LEVELS" yaml:"disabled_levels"`
}

// ComplianceConfig points at an optional manual keyword table override.
type ComplianceConfig struct {
	KeywordsPath string `env:"COMPLIANCE_KEYWORDS_PATH" yaml:"keywords_path"`
}

// TurnsConfig holds turn splitting policies.
type TurnsConfig struct {
	LeadingAgentPolicy   string `yaml:"leading_agent_policy"`
	UnknownSpeakerPolicy string `yaml:"unknown_speaker_policy"`
}

// AlertsConfig configures filtering alerts and their sinks.
type AlertsConfig struct {
	Enabled     bool          `env:"ALERTS_ENABLED" yaml:"enabled"`
	MinLevel    string        `yaml:"min_level"`
	HistorySize int           `yaml:"history_size"`
	QueueSize   int           `yaml:"queue_size"`
	Timeout     time.Duration `yaml:"timeout"`
	Redis       RedisConfig   `yaml:"redis"`
	AMQP        AMQPConfig    `yaml:"amqp"`
	Slack       SlackConfig   `yaml:"slack"`
}

// RedisConfig configures the Redis pub/sub alert sink.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"` //nolint:gosec // credential from env
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

// AMQPConfig configures the AMQP alert sink.
type AMQPConfig struct {
	URL   string `env:"AMQP_URL"        yaml:"url"`
	Queue string `env:"AMQP_QUEUE_NAME" yaml:"queue"`
}

// SlackConfig configures the Slack alert sink.
type SlackConfig struct {
	Token     string `env:"SLACK_BOT_TOKEN"  yaml:"token"` //nolint:gosec // credential from env
	ChannelID string `env:"SLACK_CHANNEL_ID" yaml:"channel_id"`
}

// StorageConfig configures result sinks.
type StorageConfig struct {
	Timeout       time.Duration       `yaml:"timeout"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Database      DatabaseConfig      `yaml:"database"`
}

// ElasticsearchConfig configures the Elasticsearch turn index.
type ElasticsearchConfig struct {
	Enabled    bool   `env:"ELASTICSEARCH_ENABLED" yaml:"enabled"`
	URL        string `env:"ELASTICSEARCH_URL"     yaml:"url"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"` //nolint:gosec // credential from config
	Index      string `yaml:"index"`
	MaxRetries int    `yaml:"max_retries"`
}

// DatabaseConfig configures the SQL history store.
type DatabaseConfig struct {
	Enabled bool   `env:"DATABASE_ENABLED" yaml:"enabled"`
	Driver  string `env:"DATABASE_DRIVER"  yaml:"driver"`
	DSN     string `env:"DATABASE_DSN"     yaml:"dsn"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// ProfilingConfig holds continuous profiling settings.
type ProfilingConfig struct {
	Enabled   bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"enabled"`
	ServerURL string `env:"PYROSCOPE_SERVER_URL"        yaml:"server_url"`
}

// Default returns a configuration built purely from defaults.
func Default() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}

// SetDefaults fills zero values with defaults.
func SetDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setLoggingDefaults(&cfg.Logging)
	setClassifierDefaults(&cfg.Classifier)
	if cfg.Emotion.Timeout == 0 {
		cfg.Emotion.Timeout = defaultEmotionTimeout
	}
	if cfg.Turns.LeadingAgentPolicy == "" {
		cfg.Turns.LeadingAgentPolicy = defaultTurnPolicy
	}
	if cfg.Turns.UnknownSpeakerPolicy == "" {
		cfg.Turns.UnknownSpeakerPolicy = defaultTurnPolicy
	}
	setAlertDefaults(&cfg.Alerts)
	setStorageDefaults(&cfg.Storage)
	if cfg.Profiling.ServerURL == "" {
		cfg.Profiling.ServerURL = defaultPyroscopeServer
	}
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setClassifierDefaults(c *ClassifierConfig) {
	if c.Provider == "" {
		c.Provider = ProviderNone
	}
	if c.Timeout == 0 {
		c.Timeout = defaultClassifierTimeout
	}
	if c.AnthropicModel == "" {
		c.AnthropicModel = defaultAnthropicModel
	}
}

func setAlertDefaults(a *AlertsConfig) {
	if a.MinLevel == "" {
		a.MinLevel = defaultAlertMinLevel
	}
	if a.HistorySize == 0 {
		a.HistorySize = defaultAlertHistorySize
	}
	if a.QueueSize == 0 {
		a.QueueSize = defaultAlertQueueSize
	}
	if a.Timeout == 0 {
		a.Timeout = defaultAlertTimeout
	}
	if a.Redis.Channel == "" {
		a.Redis.Channel = defaultRedisChannel
	}
	if a.AMQP.Queue == "" {
		a.AMQP.Queue = defaultAMQPQueue
	}
}

func setStorageDefaults(s *StorageConfig) {
	if s.Timeout == 0 {
		s.Timeout = defaultStorageTimeout
	}
	if s.Elasticsearch.Index == "" {
		s.Elasticsearch.Index = defaultESIndex
	}
	if s.Elasticsearch.MaxRetries == 0 {
		s.Elasticsearch.MaxRetries = defaultESMaxRetries
	}
	if s.Database.Driver == "" {
		s.Database.Driver = defaultDBDriver
	}
	if s.Database.DSN == "" {
		s.Database.DSN = defaultDBDSN
	}
}

// ValidationError describes a rejected configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const maxPort = 65535

// Validate checks enum-valued and ranged settings.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > maxPort {
		return &ValidationError{Field: "service.port", Message: "must be between 1 and 65535"}
	}
	if c.Service.Concurrency < 1 {
		return &ValidationError{Field: "service.concurrency", Message: "must be positive"}
	}
	if c.Service.RateLimit < 0 {
		return &ValidationError{Field: "service.sessions_per_second", Message: "must not be negative"}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
	switch c.Classifier.Provider {
	case ProviderNone:
	case ProviderHTTP:
		if c.Classifier.URL == "" {
			return &ValidationError{Field: "classifier.url", Message: "is required for the http provider"}
		}
	case ProviderAnthropic:
		if c.Classifier.AnthropicAPIKey == "" {
			return &ValidationError{Field: "classifier.anthropic_api_key", Message: "is required for the anthropic provider"}
		}
	default:
		return &ValidationError{Field: "classifier.provider", Message: "must be one of: none, http, anthropic"}
	}
	if c.Emotion.Enabled && c.Emotion.URL == "" {
		return &ValidationError{Field: "emotion.url", Message: "is required when emotion is enabled"}
	}
	if !oneOf(c.Turns.LeadingAgentPolicy, "drop", "attach") {
		return &ValidationError{Field: "turns.leading_agent_policy", Message: "must be one of: drop, attach"}
	}
	if !oneOf(c.Turns.UnknownSpeakerPolicy, "drop", "customer", "agent") {
		return &ValidationError{Field: "turns.unknown_speaker_policy", Message: "must be one of: drop, customer, agent"}
	}
	if !oneOf(c.Alerts.MinLevel, "LOW", "MEDIUM", "HIGH", "CRITICAL") {
		return &ValidationError{Field: "alerts.min_level", Message: "must be one of: LOW, MEDIUM, HIGH, CRITICAL"}
	}
	if c.Alerts.QueueSize < 1 {
		return &ValidationError{Field: "alerts.queue_size", Message: "must be positive"}
	}
	if c.Alerts.Timeout <= 0 {
		return &ValidationError{Field: "alerts.timeout", Message: "must be positive"}
	}
	if c.Storage.Timeout <= 0 {
		return &ValidationError{Field: "storage.timeout", Message: "must be positive"}
	}
	if c.Storage.Database.Enabled && !oneOf(c.Storage.Database.Driver, "postgres", "sqlite3") {
		return &ValidationError{Field: "storage.database.driver", Message: "must be one of: postgres, sqlite3"}
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
