package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/services"
)

// RecommendHandler handles country recommendation requests
type RecommendHandler struct {
	recommendation services.RecommendationService
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(recommendation services.RecommendationService) *RecommendHandler {
	return &RecommendHandler{recommendation: recommendation}
}

// Recommend ranks target countries for an HS code
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.recommendation.Recommend(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
