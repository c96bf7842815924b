package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tradein-valuation/internal/api/models"
	"tradein-valuation/internal/model"
	"tradein-valuation/internal/tradein"
)

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondServiceError maps the failure taxonomy onto HTTP. Every failure is
// explained; there is no partial result.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respondError(c, http.StatusNotFound, "DEVICE_NOT_FOUND",
			"Device not found, please re-select.", map[string]interface{}{"reason": err.Error()})
	case errors.Is(err, tradein.ErrNotFound):
		respondError(c, http.StatusNotFound, "TRADEIN_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, model.ErrInvalidStorage):
		respondError(c, http.StatusBadRequest, "INVALID_STORAGE", err.Error(), nil)
	case errors.Is(err, model.ErrInvalidCondition):
		respondError(c, http.StatusBadRequest, "INVALID_CONDITION", err.Error(),
			map[string]interface{}{"allowed": model.Conditions()})
	case errors.Is(err, model.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, model.ErrUpstreamUnavailable):
		logger.Warn("profile store unavailable", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE",
			"Market data is temporarily unavailable, please try again.",
			map[string]interface{}{"retryable": true})
	case errors.Is(err, model.ErrComputation):
		logger.Error("valuation computation error", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "COMPUTATION_ERROR",
			"The offer could not be computed.", nil)
	default:
		logger.Error("unexpected error", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
