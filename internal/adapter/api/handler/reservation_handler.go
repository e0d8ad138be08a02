package handler

import (
	"github.com/labstack/echo/v4"

	"thriftfinder/internal/usecase"
	"thriftfinder/pkg/response"
	"thriftfinder/pkg/utils"
)

type ReservationHandler struct {
	reservationUseCase *usecase.ReservationUseCase
}

func NewReservationHandler(reservationUseCase *usecase.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{
		reservationUseCase: reservationUseCase,
	}
}

type reserveRequest struct {
	StoreID string `json:"storeId" validate:"required"`
}

type enquireRequest struct {
	StoreID string `json:"storeId" validate:"required"`
}

type updateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Confirmed Completed Cancelled"`
}

// Reserve places a reservation on an item and returns the reservation id
// plus the chat id to navigate into.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	itemID := c.Param("itemId")

	var req reserveRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	result, err := h.reservationUseCase.Reserve(c.Request().Context(), userID, itemID, req.StoreID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

// Enquire sends a templated enquiry about an item to its store owner.
func (h *ReservationHandler) Enquire(c echo.Context) error {
	itemID := c.Param("id")

	var req enquireRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	result, err := h.reservationUseCase.Enquire(c.Request().Context(), userID, itemID, req.StoreID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

// UpdateStatus moves a reservation through the owner workflow.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	reservationID := c.Param("id")

	var req updateReservationStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ownerID := c.Get("uid").(string)

	reservation, err := h.reservationUseCase.UpdateStatus(c.Request().Context(), ownerID, reservationID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, reservation)
}

// ListMine lists the authenticated user's reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	reservations, total, err := h.reservationUseCase.ListByUser(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reservations, total, pagination.Page, pagination.PageSize)
}

// ListByStore lists a store's reservations for its owner dashboard.
func (h *ReservationHandler) ListByStore(c echo.Context) error {
	storeID := c.Param("id")
	ownerID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	reservations, total, err := h.reservationUseCase.ListByStore(c.Request().Context(), ownerID, storeID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reservations, total, pagination.Page, pagination.PageSize)
}
