package handler

import (
	"github.com/labstack/echo/v4"

	"thriftfinder/internal/domain/entity"
	"thriftfinder/internal/usecase"
	"thriftfinder/pkg/response"
	"thriftfinder/pkg/utils"
)

type StoreHandler struct {
	storeUseCase *usecase.StoreUseCase
}

func NewStoreHandler(storeUseCase *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{
		storeUseCase: storeUseCase,
	}
}

type createStoreRequest struct {
	StoreName       string                       `json:"store_name" validate:"required"`
	Description     string                       `json:"description"`
	Address         string                       `json:"address" validate:"required"`
	ProfileImageURL string                       `json:"profile_image_url" validate:"omitempty,url"`
	Hours           map[string]entity.StoreHours `json:"hours"`
}

type createItemRequest struct {
	Name        string             `json:"name" validate:"required"`
	Description string             `json:"description"`
	Price       float64            `json:"price" validate:"required,gt=0"`
	Images      []entity.ItemImage `json:"images"`
}

func (h *StoreHandler) ListStores(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	stores, total, err := h.storeUseCase.ListStores(c.Request().Context(), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, stores, total, pagination.Page, pagination.PageSize)
}

func (h *StoreHandler) GetStore(c echo.Context) error {
	storeID := c.Param("id")

	store, err := h.storeUseCase.GetStoreByID(c.Request().Context(), storeID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, store)
}

func (h *StoreHandler) GetItem(c echo.Context) error {
	itemID := c.Param("id")

	item, err := h.storeUseCase.GetItemByID(c.Request().Context(), itemID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *StoreHandler) ListStoreItems(c echo.Context) error {
	storeID := c.Param("id")
	status := c.QueryParam("status")
	pagination := utils.GetPaginationParams(c)

	items, total, err := h.storeUseCase.ListItemsByStore(c.Request().Context(), storeID, status, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

func (h *StoreHandler) CreateStore(c echo.Context) error {
	var req createStoreRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	store, err := h.storeUseCase.CreateStore(c.Request().Context(), uid, usecase.CreateStoreInput{
		StoreName:       req.StoreName,
		Description:     req.Description,
		Address:         req.Address,
		ProfileImageURL: req.ProfileImageURL,
		Hours:           req.Hours,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, store)
}

func (h *StoreHandler) UpdateStore(c echo.Context) error {
	storeID := c.Param("id")

	var req createStoreRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	store, err := h.storeUseCase.UpdateStore(c.Request().Context(), uid, storeID, usecase.CreateStoreInput{
		StoreName:       req.StoreName,
		Description:     req.Description,
		Address:         req.Address,
		ProfileImageURL: req.ProfileImageURL,
		Hours:           req.Hours,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, store)
}

func (h *StoreHandler) UpdateItem(c echo.Context) error {
	itemID := c.Param("id")

	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	item, err := h.storeUseCase.UpdateItem(c.Request().Context(), uid, itemID, usecase.CreateItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *StoreHandler) CreateItem(c echo.Context) error {
	storeID := c.Param("id")

	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	item, err := h.storeUseCase.CreateItem(c.Request().Context(), uid, storeID, usecase.CreateItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}
