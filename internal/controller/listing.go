package controller

import (
	"errors"
	"net/http"

	"agro-market-api/internal/entity"
	"agro-market-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type listingRoutesHandler struct {
	listingService service.Listing
	validate       *validator.Validate
}

func newListingRoutesHandler(public *echo.Group, secured *echo.Group, services *service.Services, v *validator.Validate) *listingRoutesHandler {
	h := &listingRoutesHandler{listingService: services.Listing, validate: v}

	public.GET("/farmer/products", h.GetOpenListings)
	public.GET("/farmer/products/:id", h.GetListing)
	secured.GET("/farmer/products/my", h.GetOwnListings)
	secured.POST("/farmer/products", h.CreateListing)
	secured.PUT("/farmer/products/:id", h.UpdateListing)
	secured.DELETE("/farmer/products/:id", h.DeleteListing)

	return h
}

type createListingInput struct {
	ProductName    string `json:"product_name" validate:"required,max=100"`
	Quantity       int64  `json:"product_quantity" validate:"gte=0"`
	Unit           string `json:"unit" validate:"required,max=20"`
	PricePerUnit   string `json:"price_per_unit" validate:"required"`
	Currency       string `json:"currency" validate:"required,len=3"`
	AvailableFrom  string `json:"available_from" validate:"required"`
	AvailableUntil string `json:"available_until" validate:"required"`
	Description    string `json:"description" validate:"max=1000"`
}

// /farmer/products
func (h *listingRoutesHandler) CreateListing(c echo.Context) error {
	var input createListingInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	price, err := decimal.NewFromString(input.PricePerUnit)
	if err != nil || price.IsNegative() {
		return c.JSON(http.StatusBadRequest, errorResponse{"Price must be a non-negative decimal"})
	}

	model := &entity.CreateListingInput{
		OwnerId:        currentPrincipal(c).Id,
		ProductName:    input.ProductName,
		Quantity:       input.Quantity,
		Unit:           input.Unit,
		PricePerUnit:   price,
		Currency:       input.Currency,
		AvailableFrom:  input.AvailableFrom,
		AvailableUntil: input.AvailableUntil,
		Description:    input.Description,
	}

	listing, err := h.listingService.CreateListing(c.Request().Context(), model)
	if err == nil {
		return c.JSON(http.StatusOK, listing)
	}

	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, errorResponse{"Quantity can't be negative"})
	case errors.Is(err, service.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, errorResponse{"Availability window is invalid"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

// /farmer/products/:id
func (h *listingRoutesHandler) GetListing(c echo.Context) error {
	listing, err := h.listingService.GetListingById(c.Request().Context(), c.Param("id"))
	if err == nil {
		return c.JSON(http.StatusOK, listing)
	}

	if errors.Is(err, service.ErrListingNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{"There is no listing with given id"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

type listPageInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

// /farmer/products
func (h *listingRoutesHandler) GetOpenListings(c echo.Context) error {
	input := listPageInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	listings, err := h.listingService.GetOpenListings(c.Request().Context(), pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
	}

	return c.JSON(http.StatusOK, listings)
}

// /farmer/products/my
func (h *listingRoutesHandler) GetOwnListings(c echo.Context) error {
	input := listPageInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	listings, err := h.listingService.GetOwnListings(c.Request().Context(), currentPrincipal(c).Id, pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
	}

	return c.JSON(http.StatusOK, listings)
}

type updateListingInput struct {
	ProductName    string  `json:"product_name" validate:"max=100"`
	Quantity       *int64  `json:"product_quantity"`
	Unit           string  `json:"unit" validate:"max=20"`
	PricePerUnit   *string `json:"price_per_unit"`
	Currency       string  `json:"currency" validate:"omitempty,len=3"`
	AvailableFrom  string  `json:"available_from"`
	AvailableUntil string  `json:"available_until"`
	Description    string  `json:"description" validate:"max=1000"`
}

// /farmer/products/:id
func (h *listingRoutesHandler) UpdateListing(c echo.Context) error {
	var input updateListingInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	model := &entity.UpdateListingInput{
		ProductName:    input.ProductName,
		Quantity:       input.Quantity,
		Unit:           input.Unit,
		Currency:       input.Currency,
		AvailableFrom:  input.AvailableFrom,
		AvailableUntil: input.AvailableUntil,
		Description:    input.Description,
	}
	if input.PricePerUnit != nil {
		price, err := decimal.NewFromString(*input.PricePerUnit)
		if err != nil || price.IsNegative() {
			return c.JSON(http.StatusBadRequest, errorResponse{"Price must be a non-negative decimal"})
		}
		model.PricePerUnit = &price
	}

	listing, err := h.listingService.UpdateListingById(c.Request().Context(), c.Param("id"), currentPrincipal(c), model)
	if err == nil {
		return c.JSON(http.StatusOK, listing)
	}

	switch {
	case errors.Is(err, service.ErrListingNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no listing with given id"})
	case errors.Is(err, service.ErrNotEntityOwner):
		return c.JSON(http.StatusForbidden, errorResponse{"Only the owner can edit this listing"})
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, errorResponse{"Quantity can't be negative"})
	case errors.Is(err, service.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, errorResponse{"Availability window is invalid"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

// /farmer/products/:id
func (h *listingRoutesHandler) DeleteListing(c echo.Context) error {
	err := h.listingService.DeleteListingById(c.Request().Context(), c.Param("id"), currentPrincipal(c), c.QueryParam("reason"))
	if err == nil {
		return c.NoContent(http.StatusNoContent)
	}

	switch {
	case errors.Is(err, service.ErrListingNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no listing with given id"})
	case errors.Is(err, service.ErrNotEntityOwner):
		return c.JSON(http.StatusForbidden, errorResponse{"Only the owner or an admin can delete this listing"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}
