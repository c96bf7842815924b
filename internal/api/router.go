package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradein-valuation/internal/api/handlers"
	"tradein-valuation/internal/api/middleware"
	"tradein-valuation/internal/api/models"
	"tradein-valuation/internal/data"
	"tradein-valuation/internal/tradein"
	"tradein-valuation/internal/valuation"
)

// Options wires the router. TradeIns may be nil to leave booking off.
type Options struct {
	Valuer   handlers.Valuer
	Store    data.Store
	Tables   valuation.Tables
	TradeIns *tradein.Service

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	Production     bool

	// Now is the default valuation clock; nil means time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// New builds the gin engine with middleware and routes.
func New(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Named("http")))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(opts.CORSOrigins))

	handlerLogger := logger.Named("handlers")
	valuationHandler := handlers.NewValuationHandler(opts.Valuer, opts.Now, handlerLogger.Named("valuation"))
	deviceHandler := handlers.NewDeviceHandler(opts.Store, handlerLogger.Named("devices"))
	tablesHandler := handlers.NewTablesHandler(opts.Tables)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	{
		api.POST("/valuations", valuationHandler.Quote)

		api.GET("/devices", deviceHandler.ListDevices)
		api.GET("/devices/:id", deviceHandler.GetDevice)
		api.GET("/devices/:id/offers", valuationHandler.Offers)

		api.GET("/tables", tablesHandler.GetTables)

		if opts.TradeIns != nil {
			tradeInHandler := handlers.NewTradeInHandler(opts.TradeIns, opts.Now, handlerLogger.Named("tradein"))
			api.POST("/tradeins", tradeInHandler.Create)
			api.GET("/tradeins/:id", tradeInHandler.Get)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	})

	logger.Info("router initialized", zap.Bool("tradeins", opts.TradeIns != nil))
	return router
}
