package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"API_KEY", "GEMINI_API_KEY", "LLM_BACKEND", "MODEL", "PORT", "ALLOWED_ORIGINS", "STREAM_TIMEOUT", "TELEMETRY"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, BackendGemini, cfg.Backend)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Duration(0), cfg.StreamTimeout)
	assert.False(t, cfg.Telemetry)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("LLM_BACKEND", "Ollama")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("STREAM_TIMEOUT", "45s")
	t.Setenv("TELEMETRY", "on")

	cfg := FromEnv()
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, BackendOllama, cfg.Backend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 45*time.Second, cfg.StreamTimeout)
	assert.True(t, cfg.Telemetry)
}

func TestFromEnvRejectsBadTimeout(t *testing.T) {
	t.Setenv("STREAM_TIMEOUT", "soon")
	assert.Equal(t, time.Duration(0), FromEnv().StreamTimeout)

	t.Setenv("STREAM_TIMEOUT", "-5s")
	assert.Equal(t, time.Duration(0), FromEnv().StreamTimeout)
}

func TestUnknownBackendFallsBackToGemini(t *testing.T) {
	t.Setenv("LLM_BACKEND", "groq")
	assert.Equal(t, BackendGemini, FromEnv().Backend)
}

func TestOpenAIBackend(t *testing.T) {
	t.Setenv("LLM_BACKEND", "openai")
	t.Setenv("OPENAI_BASE_URL", "")
	cfg := FromEnv()
	assert.Equal(t, BackendOpenAI, cfg.Backend)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.OpenAIURL)
}
