package routes

import (
	"lumina/lumina/controllers"

	"github.com/go-chi/chi/v5"
)

func WidgetRoutes(ctrl *controllers.WidgetController) chi.Router {
	r := chi.NewRouter()
	r.Get("/", ctrl.State)
	r.Post("/toggle", ctrl.Toggle)
	r.Post("/open", ctrl.Open)
	r.Post("/close", ctrl.Close)
	return r
}
