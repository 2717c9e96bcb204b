package routes

import (
	"lumina/lumina/controllers"

	"github.com/go-chi/chi/v5"
)

func ProjectRoutes(ctrl *controllers.ProjectsController) chi.Router {
	r := chi.NewRouter()
	r.Get("/", ctrl.List)
	r.Get("/categories", ctrl.Categories)
	r.Get("/{id}", ctrl.Get)
	return r
}
