package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/services"
)

// MatchHandler handles buyer matching requests
type MatchHandler struct {
	matching services.MatchingService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matching services.MatchingService) *MatchHandler {
	return &MatchHandler{matching: matching}
}

// Match runs a matching pass for one seller
func (h *MatchHandler) Match(c *gin.Context) {
	var req models.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.matching.Match(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
