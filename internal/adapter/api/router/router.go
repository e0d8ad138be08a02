package router

import (
	"github.com/labstack/echo/v4"

	"thriftfinder/internal/adapter/api/handler"
	"thriftfinder/internal/adapter/api/middleware"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Store       *handler.StoreHandler
	Chat        *handler.ChatHandler
	Reservation *handler.ReservationHandler
	WebSocket   *handler.WebSocketHandler
	Health      *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, storeOwnerMiddleware *middleware.StoreOwnerMiddleware) {
	SetupAuthRouter(e, h.Auth, authMiddleware)
	SetupStoreRouter(e, h, authMiddleware, storeOwnerMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
	SetupHealthRouter(e, h.Health)
}
