package handlers

import (
	"github.com/SscSPs/printfleet_dashboard/cmd/docs"
	portssvc "github.com/SscSPs/printfleet_dashboard/internal/core/ports/services"
	"github.com/SscSPs/printfleet_dashboard/internal/middleware"
	"github.com/SscSPs/printfleet_dashboard/internal/platform/config"
	"github.com/SscSPs/printfleet_dashboard/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// mutationLimiter may be nil to disable throttling of writes.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	mutationLimiter *limiter.Limiter,
	posthogClient *utils.PosthogClientWrapper,
) {
	r.GET("/health", getHealth)
	r.GET("/", getHome)

	setupAPIV1Routes(r, cfg, services, mutationLimiter, posthogClient)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	mutationLimiter *limiter.Limiter,
	posthogClient *utils.PosthogClientWrapper,
) {
	v1 := r.Group("/api/v1")
	if cfg.RequireAuth {
		v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	}

	RegisterExchangeRateRoutes(v1, services.ExchangeRate, ExchangeRateRouteConfig{
		DisplayCap:      cfg.DisplayCap,
		Location:        cfg.Location,
		DefaultOperator: cfg.DefaultOperator,
		MutationLimiter: mutationLimiter,
		Analytics:       posthogClient,
	})
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
