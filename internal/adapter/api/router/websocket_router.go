package router

import (
	"github.com/labstack/echo/v4"

	"thriftfinder/internal/adapter/api/handler"
)

// SetupWebSocketRouter sets up the real-time feed endpoint. No auth
// middleware here since the handler verifies the token itself.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
