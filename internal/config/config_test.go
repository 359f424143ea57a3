package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Env:     "test",
		Port:    5000,
		DB:      DBConfig{DSN: "postgres://localhost/intellihire", MaxConns: 5},
		Limiter: RateLimiterConfig{Enabled: true, Requests: 10, Window: time.Minute},
		CORS:    CORSConfig{TrustedOrigins: []string{"http://localhost:5173"}},
		JWT:     JWTConfig{Secret: "0123456789abcdef0123456789abcdef", TTL: time.Hour},
		Crypto:  CryptoConfig{Secret: "0123456789abcdef"},
		LLM:     LLMConfig{Provider: ProviderGroq, GroqAPIKey: "gsk_test", ChunkConcurrency: 2, MaxTranscriptPairs: 50},
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad env", mutate: func(c *Config) { c.Env = "dev" }, wantErr: "invalid environment"},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: "invalid port"},
		{name: "short jwt secret", mutate: func(c *Config) { c.JWT.Secret = "short" }, wantErr: "JWT_SECRET"},
		{name: "bad aes key", mutate: func(c *Config) { c.Crypto.Secret = "abc" }, wantErr: "AES_SECRET_KEY"},
		{name: "blank origins", mutate: func(c *Config) { c.CORS.TrustedOrigins = []string{" "} }, wantErr: "trusted origin"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "bard" }, wantErr: "LLM_PROVIDER"},
		{name: "gemini without project", mutate: func(c *Config) { c.LLM.Provider = ProviderGemini }, wantErr: "GOOGLE_CLOUD_PROJECT"},
		{name: "openai without key", mutate: func(c *Config) { c.LLM.Provider = ProviderOpenAI }, wantErr: "OPENAI_API_KEY"},
		{name: "zero transcript cap", mutate: func(c *Config) { c.LLM.MaxTranscriptPairs = 0 }, wantErr: "LLM_MAX_TRANSCRIPT_PAIRS"},
		{name: "zero concurrency", mutate: func(c *Config) { c.LLM.ChunkConcurrency = 0 }, wantErr: "LLM_CHUNK_CONCURRENCY"},
		{name: "proxy cidr", mutate: func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8", "192.0.2.7"} }},
		{name: "bad proxy", mutate: func(c *Config) { c.TrustedProxies = []string{"lb.internal"} }, wantErr: "TRUSTED_PROXIES"},
		{name: "limiter disabled ignores window", mutate: func(c *Config) {
			c.Limiter = RateLimiterConfig{Enabled: false}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/intellihire")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("AES_SECRET_KEY", "0123456789abcdef")
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("CORS_TRUSTED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.GetCORSOrigins())
	assert.Equal(t, 4, cfg.LLM.ChunkConcurrency)
	assert.Equal(t, 50, cfg.LLM.MaxTranscriptPairs)
	assert.Equal(t, ":5000", cfg.GetServerAddr())
}
