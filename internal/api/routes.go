package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kexportlab/tradematch-api/internal/scoring"
	"github.com/kexportlab/tradematch-api/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, svcs *services.Services, scoringCfg scoring.Config) {
	matchHandler := NewMatchHandler(svcs.Matching)
	recommendHandler := NewRecommendHandler(svcs.Recommendation)
	simulateHandler := NewSimulateHandler(svcs.Simulation)
	economicHandler := NewEconomicHandler(svcs.Economic)
	complianceHandler := NewComplianceHandler(scoringCfg)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/match", matchHandler.Match)
		v1.POST("/recommend", recommendHandler.Recommend)
		v1.POST("/simulate", simulateHandler.Simulate)

		v1.GET("/compliance/:country", complianceHandler.Check)

		v1.GET("/scores/economic", economicHandler.GetScores)
		v1.POST("/indicators/csv", economicHandler.UploadCSV)
	}
}
