package router

import (
	"github.com/labstack/echo/v4"

	"thriftfinder/internal/adapter/api/middleware"
)

// SetupStoreRouter mounts the marketplace surface under /api/stores. The
// store directory is public; everything else requires an authenticated
// caller.
func SetupStoreRouter(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, storeOwnerMiddleware *middleware.StoreOwnerMiddleware) {
	public := e.Group("/api/stores")
	public.GET("", h.Store.ListStores)

	protected := e.Group("/api/stores")
	protected.Use(authMiddleware.Authenticate)

	protected.GET("/items/:id", h.Store.GetItem)
	protected.GET("/:id", h.Store.GetStore)
	protected.GET("/:id/items", h.Store.ListStoreItems)

	protected.GET("/users/:uid", h.Auth.GetUser)

	protected.POST("/messages", h.Chat.SendMessage)
	protected.GET("/chats", h.Chat.GetUserChats)
	protected.GET("/chats/:id", h.Chat.GetChatByID)
	protected.GET("/chats/:id/messages", h.Chat.GetChatMessages)
	protected.PUT("/chats/:id/read", h.Chat.MarkChatAsRead)

	protected.PUT("/reserve/:itemId", h.Reservation.Reserve)
	protected.POST("/items/:id/enquire", h.Reservation.Enquire)
	protected.GET("/reservations", h.Reservation.ListMine)

	owner := e.Group("/api/stores")
	owner.Use(authMiddleware.Authenticate)
	owner.Use(storeOwnerMiddleware.StoreOwnerOnly)
	owner.POST("", h.Store.CreateStore)
	owner.PUT("/:id", h.Store.UpdateStore)
	owner.POST("/:id/items", h.Store.CreateItem)
	owner.PUT("/items/:id", h.Store.UpdateItem)
	owner.GET("/:id/reservations", h.Reservation.ListByStore)
	owner.PUT("/reservations/:id/status", h.Reservation.UpdateStatus)
}
