package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kexportlab/tradematch-api/internal/scoring"
)

// ComplianceHandler serves export policy lookups
type ComplianceHandler struct {
	cfg scoring.Config
}

// NewComplianceHandler creates a new compliance handler
func NewComplianceHandler(cfg scoring.Config) *ComplianceHandler {
	return &ComplianceHandler{cfg: cfg}
}

// Check classifies one country against the export policy tables. Blocked is
// a valid lookup answer here, not an error: the endpoint exists to ask.
func (h *ComplianceHandler) Check(c *gin.Context) {
	country := c.Param("country")
	if len(country) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Country must be an ISO2 code"})
		return
	}
	c.JSON(http.StatusOK, scoring.CheckCompliance(country, h.cfg))
}
