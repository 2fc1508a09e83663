package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/netvista/netvista-api/internal/auth"
	"github.com/netvista/netvista-api/internal/config"
	"github.com/netvista/netvista-api/internal/handlers"
	"github.com/netvista/netvista-api/internal/interfaces"
	"github.com/netvista/netvista-api/internal/metrics"
	"github.com/netvista/netvista-api/internal/services"
)

// New builds the gin router with middleware and routes wired to the given
// data provider and event publisher
func New(cfg *config.Config, provider interfaces.BillingDataProvider, publisher interfaces.CommissionEventPublisher) *gin.Engine {
	factory := services.NewBusinessLogicFactory(services.DefaultConfigs(cfg.BillingAPIBaseURL), provider)
	common := handlers.NewCommonServices(factory, publisher)

	revenueHandler := handlers.NewRevenueHandler(common)
	planHandler := handlers.NewPlanHandler(common)
	networkHandler := handlers.NewNetworkHandler(common)
	healthHandler := handlers.NewHealthHandler()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(configureCORS(cfg))
	router.Use(RequestIDMiddleware())
	router.Use(metrics.Middleware())

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", metrics.Handler())

	v1 := router.Group("/api/v1")
	v1.Use(auth.Middleware(cfg.JWTSecret))
	{
		revenue := v1.Group("/revenue")
		{
			revenue.POST("/customer", revenueHandler.CalculateCustomerRevenue)
			revenue.POST("/commissions", revenueHandler.CalculatePartnerCommissions)
			revenue.POST("/platform", revenueHandler.CalculatePlatformRevenue)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("/:customer_id/plan", planHandler.GetCustomerPlan)
			customers.GET("/:customer_id/upgrade-recommendation", planHandler.EvaluateUpgrade)
			customers.GET("/:customer_id/usage-summary", networkHandler.GetUsageSummary)
		}
	}

	return router
}

// configureCORS returns a CORS middleware from the configured origins
func configureCORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	return cors.New(corsConfig)
}
