package app

import (
	"fmt"

	"lumina/lumina/assistant"
	"lumina/lumina/config"
	"lumina/lumina/controllers"
	"lumina/lumina/routes"
	"lumina/lumina/services/chat"
	"lumina/lumina/services/llm"
	"lumina/lumina/services/widget"
	"lumina/lumina/utils/logging"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds everything one assistant process needs, wired from a Config.
type App struct {
	Config   config.Config
	Persona  *assistant.Persona
	Catalog  *assistant.Catalog
	Provider llm.Provider
	Manager  *chat.SessionManager
	Widget   *widget.Widget
}

// New loads the persona and catalog and builds the provider, session manager and widget.
// No network call happens here: the conversation is created on the first message.
func New(cfg config.Config) (*App, error) {
	persona, err := assistant.LoadPersona(cfg.PersonaFile)
	if err != nil {
		return nil, err
	}
	if cfg.Model != "" {
		persona.Model = cfg.Model
	}

	catalog, err := assistant.LoadCatalog(cfg.ProjectsFile)
	if err != nil {
		return nil, err
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	manager := chat.NewSessionManager(provider, chat.Options{
		APIKey: cfg.APIKey,
		Conversation: llm.ConversationConfig{
			Model:             persona.Model,
			SystemInstruction: assistant.SystemInstruction(persona, catalog),
			Temperature:       persona.Temperature,
		},
		InitFallback:   persona.InitFallback,
		StreamFallback: persona.StreamFallback,
		StreamTimeout:  cfg.StreamTimeout,
	})

	logging.AppLogger.Info("assistant ready",
		zap.String("persona", persona.Name),
		zap.String("provider", provider.Name()),
		zap.String("model", persona.Model),
		zap.Int("projects", len(catalog.Projects)),
	)

	return &App{
		Config:   cfg,
		Persona:  persona,
		Catalog:  catalog,
		Provider: provider,
		Manager:  manager,
		Widget:   widget.New(manager, persona.Greeting),
	}, nil
}

func NewProvider(cfg config.Config) (llm.Provider, error) {
	switch cfg.Backend {
	case config.BackendGemini, "":
		return llm.NewGeminiProvider(cfg.APIKey), nil
	case config.BackendOllama:
		return llm.NewOllamaProvider(cfg.OllamaURL), nil
	case config.BackendOpenAI:
		return llm.NewOpenAIProvider(cfg.OpenAIURL, cfg.APIKey), nil
	}
	return nil, fmt.Errorf("unknown LLM backend %q", cfg.Backend)
}

// Router exposes the widget, the transcript and the project catalog over HTTP.
func (a *App) Router() chi.Router {
	return routes.NewRouter(routes.Controllers{
		Health:   controllers.NewHealthController(a.Provider.Name(), a.Manager.HasSession),
		Chat:     controllers.NewChatController(a.Widget, a.Persona.BusyNotice),
		Widget:   controllers.NewWidgetController(a.Widget),
		Projects: controllers.NewProjectsController(a.Catalog),
	}, a.Config.AllowedOrigins)
}
