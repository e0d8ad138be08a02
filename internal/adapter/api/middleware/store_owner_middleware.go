package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"thriftfinder/internal/domain/entity"
	"thriftfinder/internal/domain/repository"
)

type StoreOwnerMiddleware struct {
	userRepo repository.UserRepository
}

func NewStoreOwnerMiddleware(userRepo repository.UserRepository) *StoreOwnerMiddleware {
	return &StoreOwnerMiddleware{
		userRepo: userRepo,
	}
}

func (m *StoreOwnerMiddleware) StoreOwnerOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify store owner privileges")
		}

		if user.Role != entity.RoleStoreOwner && user.Role != entity.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Store owner privileges required")
		}

		return next(c)
	}
}
