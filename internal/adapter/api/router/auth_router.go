package router

import (
	"github.com/labstack/echo/v4"

	"thriftfinder/internal/adapter/api/handler"
	"thriftfinder/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware *middleware.AuthMiddleware) {
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)

	protected := e.Group("/api/auth")
	protected.Use(authMiddleware.Authenticate)
	protected.POST("/getRole", authHandler.GetRole)
}
