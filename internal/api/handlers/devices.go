package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradein-valuation/internal/api/models"
	"tradein-valuation/internal/data"
)

// DeviceHandler serves the device catalog.
type DeviceHandler struct {
	store  data.Store
	logger *zap.Logger
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(store data.Store, logger *zap.Logger) *DeviceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceHandler{store: store, logger: logger}
}

// ListDevices handles GET /api/v1/devices
//
// Optional ?brand= filters by brand, case sensitive.
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	profiles, err := h.store.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	brand := c.Query("brand")
	devices := make([]models.DeviceInfo, 0, len(profiles))
	for _, p := range profiles {
		if brand != "" && p.Brand != brand {
			continue
		}
		devices = append(devices, toDeviceInfo(p))
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// GetDevice handles GET /api/v1/devices/:id
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	p, err := h.store.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toDeviceInfo(p))
}
