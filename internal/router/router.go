package router

import (
	"net/http"
	"time"

	"cafepos/internal/config"
	"cafepos/internal/handlers"
	"cafepos/internal/middleware"
	"cafepos/internal/services"
	"cafepos/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock sets the time around which named report ranges are resolved.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Setup installs the middleware stack and all application routes on engine.
func Setup(engine *gin.Engine, cafeService services.CafeService, cfg *config.Config, opts ...Option) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Initialize Handlers
	inventoryHandler := handlers.NewInventoryHandler(cafeService)
	orderHandler := handlers.NewOrderHandler(cafeService)
	staffHandler := handlers.NewStaffHandler(cafeService)
	clientHandler := handlers.NewClientHandler(cafeService)
	reportHandler := handlers.NewReportHandler(cafeService, o.now)
	streamHandler := handlers.NewStreamHandler(cafeService)

	apiV1 := engine.Group("/api/v1")
	{
		SetupProductRoutes(apiV1, inventoryHandler)
		SetupInventoryRoutes(apiV1, inventoryHandler)
		SetupSaleRoutes(apiV1, orderHandler)
		SetupParkedOrderRoutes(apiV1, orderHandler)
		SetupStaffRoutes(apiV1, staffHandler)
		SetupClientRoutes(apiV1, clientHandler)
		SetupReportRoutes(apiV1, reportHandler)
		SetupStreamRoutes(apiV1, streamHandler)
	}
}
