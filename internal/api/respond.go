package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kexportlab/tradematch-api/internal/errors"
)

// respondError maps the AppError taxonomy onto HTTP statuses. Anything that
// is not an AppError is an internal failure.
func respondError(c *gin.Context, err error) {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeValidationError:
		status = http.StatusBadRequest
	case apperrors.ErrCodePolicyBlocked:
		status = http.StatusForbidden
	case apperrors.ErrCodeUpstreamError:
		status = http.StatusBadGateway
	}

	body := gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	if appErr.Details != "" {
		// For policy rejections this carries the legal notice.
		body["details"] = appErr.Details
	}
	c.JSON(status, body)
}
