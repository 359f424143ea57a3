package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env     string `envconfig:"APP_ENV" default:"production"`
	Port    int    `envconfig:"APP_PORT" default:"5000"`
	DB      DBConfig
	Redis   RedisConfig
	Limiter RateLimiterConfig
	CORS    CORSConfig
	JWT     JWTConfig
	Crypto  CryptoConfig
	LLM     LLMConfig

	// proxies whose X-Forwarded-For is believed; empty trusts none
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

// database configuration
type DBConfig struct {
	DSN             string        `envconfig:"DATABASE_URL" required:"true"`
	MaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// redis configuration, an empty address disables redis backed features
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// rate limiting for the generative endpoints
type RateLimiterConfig struct {
	Enabled  bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:5173"`
}

// JWT configuration
type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

// encryption configuration for résumé text at rest
type CryptoConfig struct {
	Secret string `envconfig:"AES_SECRET_KEY" required:"true"`
}

// generative text provider configuration
type LLMConfig struct {
	Provider         string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	Timeout          time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	ChunkConcurrency int           `envconfig:"LLM_CHUNK_CONCURRENCY" default:"4"`

	// largest transcript, in question/answer pairs, conclude accepts
	MaxTranscriptPairs int `envconfig:"LLM_MAX_TRANSCRIPT_PAIRS" default:"50"`

	GoogleProject     string `envconfig:"GOOGLE_CLOUD_PROJECT"`
	GoogleLocation    string `envconfig:"GOOGLE_CLOUD_LOCATION" default:"us-central1"`
	GoogleCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	GeminiModel       string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	GroqAPIKey string `envconfig:"GROQ_API_KEY"`
	GroqModel  string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`

	OpenAIKey   string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
}

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("invalid TRUSTED_PROXIES entry: %q", p)
			}
		}
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.Limiter.Enabled && (c.Limiter.Requests < 1 || c.Limiter.Window <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	secretLen := len(c.Crypto.Secret)
	if secretLen != 16 && secretLen != 24 && secretLen != 32 {
		return fmt.Errorf("AES_SECRET_KEY must be 16, 24, or 32 bytes (got %d)", secretLen)
	}
	if len(c.GetCORSOrigins()) == 0 {
		return fmt.Errorf("at least one trusted origin must be specified")
	}
	if c.LLM.ChunkConcurrency < 1 {
		return fmt.Errorf("LLM_CHUNK_CONCURRENCY must be at least 1")
	}
	if c.LLM.MaxTranscriptPairs < 1 {
		return fmt.Errorf("LLM_MAX_TRANSCRIPT_PAIRS must be at least 1")
	}

	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.GoogleProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the gemini provider")
		}
	case ProviderGroq:
		if c.LLM.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for the groq provider")
		}
	case ProviderOpenAI:
		if c.LLM.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("invalid LLM_PROVIDER: %s (must be one of: gemini, groq, openai)", c.LLM.Provider)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSOrigins returns the list of trusted CORS origins
func (c *Config) GetCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, DB.MaxConns=%d, Redis=%t, "+
		"Limiter.Enabled=%t, Limiter.Requests=%d, Limiter.Window=%s, CORS.Origins=%d, "+
		"JWT.TTL=%s, LLM.Provider=%s, LLM.Timeout=%s, LLM.ChunkConcurrency=%d}",
		c.Env, c.Port, c.DB.MaxConns, c.Redis.Addr != "",
		c.Limiter.Enabled, c.Limiter.Requests, c.Limiter.Window, len(c.GetCORSOrigins()),
		c.JWT.TTL, c.LLM.Provider, c.LLM.Timeout, c.LLM.ChunkConcurrency)
}
