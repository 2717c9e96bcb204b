package controllers

import (
	"net/http"
	"strconv"

	"lumina/lumina/assistant"
	httputils "lumina/lumina/utils/http"

	"github.com/go-chi/chi/v5"
)

type ProjectsController struct {
	catalog *assistant.Catalog
}

func NewProjectsController(catalog *assistant.Catalog) *ProjectsController {
	return &ProjectsController{catalog: catalog}
}

// List handles ?category= and ?featured=true filters.
func (c *ProjectsController) List(w http.ResponseWriter, r *http.Request) {
	projects := c.catalog.ByCategory(assistant.Category(r.URL.Query().Get("category")))

	if raw := r.URL.Query().Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, "error", "featured must be a boolean")
			return
		}
		filtered := projects[:0]
		for _, p := range projects {
			if p.Featured == featured {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}
	if projects == nil {
		projects = []assistant.Project{}
	}
	httputils.WriteJSON(w, http.StatusOK, projects)
}

func (c *ProjectsController) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := c.catalog.Find(chi.URLParam(r, "id"))
	if !ok {
		httputils.WriteError(w, http.StatusNotFound, "error", "project not found")
		return
	}
	httputils.WriteJSON(w, http.StatusOK, p)
}

func (c *ProjectsController) Categories(w http.ResponseWriter, r *http.Request) {
	httputils.WriteJSON(w, http.StatusOK, assistant.Categories())
}
