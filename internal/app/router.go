package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"freightpay/internal/handler"
	"freightpay/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ClientHandler   *handler.ClientHandler
	DeliveryHandler *handler.DeliveryHandler
	ProofHandler    *handler.ProofHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Client routes.
		clients := v1.Group("/clients")
		{
			clients.POST("/register", deps.ClientHandler.Register)
			clients.GET("", deps.ClientHandler.GetAll)
			clients.GET("/:id", deps.ClientHandler.GetClient)
			clients.GET("/:id/payment-summary", deps.ClientHandler.GetPaymentSummary)
		}

		// Delivery routes.
		deliveries := v1.Group("/deliveries")
		{
			deliveries.POST("", deps.DeliveryHandler.CreateDelivery)
			deliveries.GET("", deps.DeliveryHandler.GetAll)
			deliveries.GET("/:id", deps.DeliveryHandler.GetDelivery)
			deliveries.POST("/:id/status", deps.DeliveryHandler.UpdateStatus)
		}

		// Proof and receipt routes.
		proofs := v1.Group("/proofs")
		{
			proofs.POST("", deps.ProofHandler.Upload)
			proofs.GET("", deps.ProofHandler.GetAll)
			proofs.GET("/:id", deps.ProofHandler.GetProof)
			proofs.POST("/:id/approve", deps.ProofHandler.Approve)
			proofs.POST("/:id/reject", deps.ProofHandler.Reject)
			proofs.GET("/:id/receipt", deps.ProofHandler.GetReceipt)
		}
	}

	return router
}
