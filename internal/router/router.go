package router

import (
	"github.com/calcledger/internal/config"
	apihandlers "github.com/calcledger/internal/http/handlers/api"
	"github.com/calcledger/internal/logger"
	"github.com/calcledger/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由。所有业务路由都在身份鉴权之后。
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := apihandlers.New(c)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	authed := r.Group("", IdentityAuthMiddleware(c.IdentityVerifier))
	{
		auth := authed.Group("/auth")
		{
			auth.POST("/signup", handler.Signup)
			auth.POST("/login", handler.Login)
			auth.POST("/verify-2fa-code", handler.VerifyTwoFactorCode)
			auth.POST("/enable-2fa", handler.EnableTwoFactor)
			auth.POST("/disable-2fa", handler.DisableTwoFactor)
		}

		calculations := authed.Group("/calculations")
		{
			calculations.GET("", handler.ListCalculations)
			calculations.POST("", handler.CreateCalculation)
			calculations.PUT("/:id", handler.UpdateCalculation)
			calculations.DELETE("/:id", handler.DeleteCalculation)
		}
	}

	return r
}
