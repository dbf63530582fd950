package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kexportlab/tradematch-api/internal/services"
)

// EconomicHandler serves scored indicator snapshots and CSV ingestion
type EconomicHandler struct {
	economic services.EconomicService
}

// NewEconomicHandler creates a new economic handler
func NewEconomicHandler(economic services.EconomicService) *EconomicHandler {
	return &EconomicHandler{economic: economic}
}

// GetScores returns the latest scored snapshot
func (h *EconomicHandler) GetScores(c *gin.Context) {
	report, err := h.economic.LatestScores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// UploadCSV ingests an indicator CSV and rescores. Accepts either a raw
// text/csv body or a multipart upload under the "file" field; the scoring
// reference year comes from the optional "year" query parameter.
func (h *EconomicHandler) UploadCSV(c *gin.Context) {
	var year int
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter: " + raw})
			return
		}
		year = parsed
	}

	reader := c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing CSV file upload: " + err.Error()})
			return
		}
		defer file.Close()
		reader = file
	}

	report, err := h.economic.IngestCSV(c.Request.Context(), reader, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
