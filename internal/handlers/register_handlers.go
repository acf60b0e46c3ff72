package handlers

import (
	"github.com/SscSPs/bank_backoffice_api/cmd/docs"
	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/middleware"
	"github.com/SscSPs/bank_backoffice_api/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// Limiters groups the optional rate limiters applied to the API.
type Limiters struct {
	API   *limiter.Limiter
	Login *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiters Limiters,
) {
	r.GET("/health", getHealth)

	public := r.Group("/api/v1")
	RegisterAuthRoutes(public, services.User, services.Auth, limiters.Login)

	setupAPIV1Routes(r, cfg, services, limiters.API)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 group
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	apiLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	if apiLimiter != nil {
		// after auth so authenticated callers are counted per user
		v1.Use(middleware.RateLimit(apiLimiter))
	}

	RegisterSessionRoutes(v1, service.User, service.Auth)
	RegisterTransactionRoutes(v1, service.Transaction)
	RegisterAccountRoutes(v1, service.Account)
	RegisterAdminRoutes(v1, service.Account, service.User)
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
