package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradein-valuation/internal/api/models"
	"tradein-valuation/internal/model"
	"tradein-valuation/internal/valuation"
)

// Valuer computes offers. Implemented by valuation.Service.
type Valuer interface {
	Quote(ctx context.Context, req valuation.Request) (*valuation.Result, error)
	Offers(ctx context.Context, deviceID string, now time.Time) ([]*valuation.Result, error)
}

// ValuationHandler serves offer computation.
type ValuationHandler struct {
	valuer Valuer
	logger *zap.Logger
	now    func() time.Time
}

// NewValuationHandler creates a new valuation handler. now supplies the
// default valuation instant; nil means time.Now.
func NewValuationHandler(valuer Valuer, now func() time.Time, logger *zap.Logger) *ValuationHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValuationHandler{valuer: valuer, logger: logger, now: now}
}

// Quote handles POST /api/v1/valuations
func (h *ValuationHandler) Quote(c *gin.Context) {
	var body models.ValuationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	at := h.now()
	if body.Now != nil {
		at = *body.Now
	}
	req, err := parseRequest(body.DeviceID, body.Storage, body.Condition, at)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	res, err := h.valuer.Quote(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toValuationResponse(res))
}

// Offers handles GET /api/v1/devices/:id/offers
func (h *ValuationHandler) Offers(c *gin.Context) {
	var q models.OffersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	now := h.now()
	if q.Now != "" {
		t, err := time.Parse(time.RFC3339, q.Now)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
				"now must be an RFC3339 timestamp", map[string]interface{}{"now": q.Now})
			return
		}
		now = t
	}

	deviceID := c.Param("id")
	results, err := h.valuer.Offers(c.Request.Context(), deviceID, now)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	offers := make([]models.ValuationResponse, len(results))
	for i, r := range results {
		offers[i] = toValuationResponse(r)
	}
	c.JSON(http.StatusOK, models.OfferMatrixResponse{
		DeviceID: deviceID,
		ValuedAt: now,
		Offers:   offers,
	})
}

// parseRequest parses the user-facing labels. Unknown labels are rejected,
// never coerced to a default.
func parseRequest(deviceID, storage, condition string, at time.Time) (valuation.Request, error) {
	tier, err := model.ParseStorageTier(storage)
	if err != nil {
		return valuation.Request{}, err
	}
	cond, err := model.ParseCondition(condition)
	if err != nil {
		return valuation.Request{}, err
	}
	return valuation.Request{
		DeviceID:  deviceID,
		Storage:   tier,
		Condition: cond,
		Now:       at,
	}, nil
}
