package controllers

import (
	"net/http"

	"lumina/lumina/services/widget"
	httputils "lumina/lumina/utils/http"
)

type WidgetController struct {
	widget *widget.Widget
}

func NewWidgetController(w *widget.Widget) *WidgetController {
	return &WidgetController{widget: w}
}

func (c *WidgetController) State(w http.ResponseWriter, r *http.Request) {
	httputils.WriteJSON(w, http.StatusOK, c.widget.State())
}

func (c *WidgetController) Toggle(w http.ResponseWriter, r *http.Request) {
	httputils.WriteJSON(w, http.StatusOK, c.widget.Toggle())
}

func (c *WidgetController) Open(w http.ResponseWriter, r *http.Request) {
	c.widget.Open()
	httputils.WriteJSON(w, http.StatusOK, c.widget.State())
}

func (c *WidgetController) Close(w http.ResponseWriter, r *http.Request) {
	c.widget.Close()
	httputils.WriteJSON(w, http.StatusOK, c.widget.State())
}
