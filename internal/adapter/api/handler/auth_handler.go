package handler

import (
	"thriftfinder/internal/usecase"
	"thriftfinder/pkg/errors"
	"thriftfinder/pkg/response"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required"`
	Phone       string `json:"phone"`
	Role        string `json:"role" validate:"omitempty,oneof=customer storeOwner"`
}

type getRoleRequest struct {
	UID string `json:"uid" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Role:        req.Role,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}

// GetRole resolves a uid to its role. The authenticated caller may only ask
// about themselves.
func (h *AuthHandler) GetRole(c echo.Context) error {
	var req getRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	if req.UID != uid {
		return response.Error(c, errors.Forbidden("You can only resolve your own role", nil))
	}

	role, err := h.authUseCase.GetRole(c.Request().Context(), req.UID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"role": role})
}

// GetUser returns the public profile slice used by the chat header.
func (h *AuthHandler) GetUser(c echo.Context) error {
	uid := c.Param("uid")

	user, err := h.authUseCase.GetUserByID(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"displayName": user.DisplayName,
		"email":       user.Email,
	})
}
