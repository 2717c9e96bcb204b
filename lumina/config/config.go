package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendGemini = "gemini"
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

type Config struct {
	APIKey         string
	Backend        string
	OllamaURL      string
	OpenAIURL      string
	Model          string
	Port           string
	AllowedOrigins []string
	PersonaFile    string
	ProjectsFile   string
	// StreamTimeout bounds one streamed reply. Zero leaves streams unbounded.
	StreamTimeout time.Duration
	Telemetry     bool
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() Config {
	apiKey := getEnv("API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("GEMINI_API_KEY", "")
	}

	backend := strings.ToLower(getEnv("LLM_BACKEND", BackendGemini))
	switch backend {
	case BackendGemini, BackendOllama, BackendOpenAI:
	default:
		log.Printf("Unknown LLM_BACKEND %q, using %s", backend, BackendGemini)
		backend = BackendGemini
	}

	timeout, err := time.ParseDuration(getEnv("STREAM_TIMEOUT", "0s"))
	if err != nil || timeout < 0 {
		log.Printf("Invalid STREAM_TIMEOUT value, streams stay unbounded")
		timeout = 0
	}

	return Config{
		APIKey:         apiKey,
		Backend:        backend,
		OllamaURL:      getEnv("OLLAMA_URL", "http://localhost:11434/api"),
		OpenAIURL:      getEnv("OPENAI_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:          getEnv("MODEL", ""),
		Port:           getEnv("PORT", "8000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		PersonaFile:    getEnv("PERSONA_FILE", ""),
		ProjectsFile:   getEnv("PROJECTS_FILE", ""),
		StreamTimeout:  timeout,
		Telemetry:      parseBool(getEnv("TELEMETRY", "false")),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
