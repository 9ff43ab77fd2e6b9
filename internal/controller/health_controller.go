package controller

import (
	"net/http"

	"github.com/menapay/orchestrator/internal/orchestrator"
)

type HealthController struct {
	orch *orchestrator.Orchestrator
}

func NewHealthController(orch *orchestrator.Orchestrator) *HealthController {
	return &HealthController{orch: orch}
}

// Health handles GET /health: overall status plus per-gateway adapter
// health. A degraded gateway does not fail the endpoint; the service
// itself is still serving.
func (h *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	gateways := h.orch.HealthCheck()

	status := "ok"
	for _, healthy := range gateways {
		if !healthy {
			status = "degraded"
			break
		}
	}

	writeSuccess(w, http.StatusOK, HealthResponse{Status: status, Gateways: gateways})
}

func (h *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
