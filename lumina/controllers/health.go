package controllers

import (
	"net/http"

	httputils "lumina/lumina/utils/http"
)

type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Session  bool   `json:"session"`
}

type HealthController struct {
	provider   string
	hasSession func() bool
}

// NewHealthController reports the provider name and whether a conversation is open.
func NewHealthController(provider string, hasSession func() bool) *HealthController {
	return &HealthController{provider: provider, hasSession: hasSession}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Provider: h.provider}
	if h.hasSession != nil {
		resp.Session = h.hasSession()
	}
	httputils.WriteJSON(w, http.StatusOK, resp)
}
