package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"aperture/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Redis         RedisConfig
	Crypto        CryptoConfig
	AI            AIConfig
	Prompt        PromptConfig
	Batch         BatchConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"aperture"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type HTTPConfig struct {
	Host            string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"HTTP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
	MaxUploadBytes  int64         `envconfig:"HTTP_MAX_UPLOAD_BYTES" default:"20971520"` // 20 MiB
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CryptoConfig struct {
	// Master key the credential store derives per-salt AES keys from.
	MasterKey string `envconfig:"CREDENTIAL_MASTER_KEY" required:"true"`

	// SecretBackend selects where credential records live: "redis" or
	// "memory" (single-binary deployments without Redis).
	SecretBackend string `envconfig:"SECRET_BACKEND" default:"redis"`
}

// AIConfig selects the active provider and its request parameters.
type AIConfig struct {
	Provider       string        `envconfig:"AI_PROVIDER" default:"gemini"`
	GeminiModel    string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	OpenAIModel    string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL  string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Temperature    float64       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	TopP           float64       `envconfig:"AI_TOP_P" default:"0.95"`
	MaxTokens      int           `envconfig:"AI_MAX_TOKENS" default:"1024"`
	RequestTimeout time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"60s"`
	// Requests per minute toward the active provider; 0 disables limiting.
	RateLimitPerMinute int `envconfig:"AI_RATE_LIMIT_PER_MINUTE" default:"0"`
}

// ModelFor returns the configured model for a provider id.
func (c AIConfig) ModelFor(provider string) string {
	switch provider {
	case "openai":
		return c.OpenAIModel
	default:
		return c.GeminiModel
	}
}

type PromptConfig struct {
	Preset             string `envconfig:"PROMPT_PRESET"`
	CustomPrompt       string `envconfig:"PROMPT_CUSTOM"`
	UseCustomPrompt    bool   `envconfig:"PROMPT_USE_CUSTOM" default:"false"`
	EnrichWithMetadata bool   `envconfig:"PROMPT_ENRICH_METADATA" default:"true"`
}

type BatchConfig struct {
	Size         int           `envconfig:"BATCH_SIZE" default:"5"`
	RequestDelay time.Duration `envconfig:"BATCH_REQUEST_DELAY" default:"1s"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints envconfig tags cannot express.
func (c *Config) Validate() error {
	if len(c.Crypto.MasterKey) < 16 {
		return errors.NewValidationError("CREDENTIAL_MASTER_KEY", "must be at least 16 characters", len(c.Crypto.MasterKey))
	}
	if c.Batch.Size < 1 {
		return errors.NewValidationError("BATCH_SIZE", "must be positive", c.Batch.Size)
	}
	if c.Batch.RequestDelay < 0 {
		return errors.NewValidationError("BATCH_REQUEST_DELAY", "must not be negative", c.Batch.RequestDelay)
	}
	if c.Crypto.SecretBackend != "redis" && c.Crypto.SecretBackend != "memory" {
		return errors.NewValidationError("SECRET_BACKEND", "must be redis or memory", c.Crypto.SecretBackend)
	}
	return nil
}
