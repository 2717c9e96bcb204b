package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lumina/lumina/config"
	"lumina/lumina/services/llm"
	"lumina/lumina/services/transcript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutCredentialFallsBack(t *testing.T) {
	a, err := New(config.Config{Backend: config.BackendGemini})
	require.NoError(t, err)

	assert.Equal(t, "gemini", a.Provider.Name())
	require.Len(t, a.Widget.Messages(), 1)
	assert.Equal(t, a.Persona.Greeting, a.Widget.Messages()[0].Text)

	msg, err := a.Widget.Submit(context.Background(), "Bonjour")
	require.NoError(t, err)
	assert.Equal(t, a.Persona.InitFallback, msg.Text)
	assert.False(t, a.Manager.HasSession())
}

func TestNewAppliesModelOverride(t *testing.T) {
	a, err := New(config.Config{Backend: config.BackendGemini, Model: "gemini-test"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", a.Persona.Model)
}

func TestNewRejectsBadCatalog(t *testing.T) {
	_, err := New(config.Config{ProjectsFile: "does-not-exist.yaml"})
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.Config{Backend: config.BackendOllama, OllamaURL: "http://localhost:11434/api"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	p, err = NewProvider(config.Config{Backend: config.BackendOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = NewProvider(config.Config{Backend: "mistral"})
	assert.Error(t, err)
}

func TestOllamaEndToEnd(t *testing.T) {
	systems := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req llm.ChatRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) && len(req.Messages) > 0 {
			select {
			case systems <- req.Messages[0].Content:
			default:
			}
		}
		for _, seg := range []string{"Je suis ", "Lumina."} {
			fmt.Fprintf(w, `{"message":{"role":"assistant","content":%q},"done":false}`+"\n", seg)
		}
		fmt.Fprintln(w, `{"done":true}`)
	}))
	defer srv.Close()

	a, err := New(config.Config{Backend: config.BackendOllama, OllamaURL: srv.URL, Model: "llama3"})
	require.NoError(t, err)

	msg, err := a.Widget.Submit(context.Background(), "Qui es-tu ?")
	require.NoError(t, err)
	assert.Equal(t, "Je suis Lumina.", msg.Text)
	assert.Equal(t, transcript.RoleModel, msg.Role)
	assert.True(t, a.Manager.HasSession())
	assert.True(t, strings.Contains(<-systems, "Nébulos"), "system instruction carries the catalog")

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session":true`)
}
