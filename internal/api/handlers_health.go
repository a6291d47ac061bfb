package api

import (
	"net/http"

	"github.com/tosifAN/sunrise-2024/internal/board"
	"github.com/tosifAN/sunrise-2024/internal/models"
)

type HealthHandler struct {
	svc *board.Service
}

func NewHealthHandler(svc *board.Service) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status: "ok",
	}

	count, err := h.svc.Count(r.Context())
	if err != nil {
		resp.Store = models.ServiceCheck{Status: "error", Message: err.Error()}
		resp.Status = "degraded"
	} else {
		resp.Store = models.ServiceCheck{Status: "ok"}
		resp.TaskCount = count
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
