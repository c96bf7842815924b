package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradein-valuation/internal/api/models"
	"tradein-valuation/internal/tradein"
)

// TradeInHandler books trade-ins against a server-computed offer.
type TradeInHandler struct {
	svc    *tradein.Service
	logger *zap.Logger
	now    func() time.Time
}

// NewTradeInHandler creates a new trade-in handler
func NewTradeInHandler(svc *tradein.Service, now func() time.Time, logger *zap.Logger) *TradeInHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradeInHandler{svc: svc, logger: logger, now: now}
}

// Create handles POST /api/v1/tradeins
func (h *TradeInHandler) Create(c *gin.Context) {
	var body models.TradeInRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	req, err := parseRequest(body.DeviceID, body.Storage, body.Condition, h.now())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	customer := tradein.Customer{
		Name:  body.Customer.Name,
		Email: body.Customer.Email,
		Phone: body.Customer.Phone,
	}
	sub, err := h.svc.Submit(c.Request.Context(), customer, req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Header("Location", "/api/v1/tradeins/"+sub.ID.String())
	c.JSON(http.StatusCreated, toTradeInResponse(sub))
}

// Get handles GET /api/v1/tradeins/:id
func (h *TradeInHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "id must be a UUID",
			map[string]interface{}{"id": c.Param("id")})
		return
	}
	sub, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toTradeInResponse(sub))
}
