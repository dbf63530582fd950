package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/services"
)

// SimulateHandler handles export simulation requests
type SimulateHandler struct {
	simulation services.SimulationService
}

// NewSimulateHandler creates a new simulation handler
func NewSimulateHandler(simulation services.SimulationService) *SimulateHandler {
	return &SimulateHandler{simulation: simulation}
}

// Simulate projects export performance against one target market
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.simulation.Simulate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
