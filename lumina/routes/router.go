package routes

import (
	"time"

	"lumina/lumina/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Controllers struct {
	Health   *controllers.HealthController
	Chat     *controllers.ChatController
	Widget   *controllers.WidgetController
	Projects *controllers.ProjectsController
}

// NewRouter mounts every route group behind the shared middleware stack.
func NewRouter(c Controllers, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(60 * time.Second))
		gr.Mount("/health", HealthRoutes(c.Health))
		gr.Mount("/widget", WidgetRoutes(c.Widget))
		gr.Mount("/projects", ProjectRoutes(c.Projects))
	})

	// /chat has no request timeout: replies stream as long as the provider does
	r.Mount("/chat", ChatRoutes(c.Chat, allowedOrigins))
	return r
}
