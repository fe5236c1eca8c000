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

type requestRoutesHandler struct {
	requestService service.Request
	validate       *validator.Validate
}

func newRequestRoutesHandler(public *echo.Group, secured *echo.Group, services *service.Services, v *validator.Validate) *requestRoutesHandler {
	h := &requestRoutesHandler{requestService: services.Request, validate: v}

	public.GET("/consumer/requests", h.GetOpenRequests)
	public.GET("/consumer/requests/:id", h.GetRequest)
	secured.GET("/consumer/requests/my", h.GetOwnRequests)
	secured.POST("/consumer/requests", h.CreateRequest)
	secured.PUT("/consumer/requests/:id", h.UpdateRequest)
	secured.DELETE("/consumer/requests/:id", h.DeleteRequest)

	return h
}

type createRequestInput struct {
	ProductName  string `json:"product_name" validate:"required,max=100"`
	Quantity     int64  `json:"product_quantity" validate:"gte=0"`
	Unit         string `json:"unit" validate:"required,max=20"`
	PricePerUnit string `json:"price_per_unit" validate:"required"`
	Currency     string `json:"currency" validate:"required,len=3"`
	NeededBy     string `json:"needed_by" validate:"required"`
	Description  string `json:"description" validate:"max=1000"`
}

// /consumer/requests
func (h *requestRoutesHandler) CreateRequest(c echo.Context) error {
	var input createRequestInput
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

	model := &entity.CreateRequestInput{
		OwnerId:      currentPrincipal(c).Id,
		ProductName:  input.ProductName,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		PricePerUnit: price,
		Currency:     input.Currency,
		NeededBy:     input.NeededBy,
		Description:  input.Description,
	}

	request, err := h.requestService.CreateRequest(c.Request().Context(), model)
	if err == nil {
		return c.JSON(http.StatusOK, request)
	}

	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, errorResponse{"Quantity can't be negative"})
	case errors.Is(err, service.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, errorResponse{"Needed-by date is invalid"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

// /consumer/requests/:id
func (h *requestRoutesHandler) GetRequest(c echo.Context) error {
	request, err := h.requestService.GetRequestById(c.Request().Context(), c.Param("id"))
	if err == nil {
		return c.JSON(http.StatusOK, request)
	}

	if errors.Is(err, service.ErrRequestNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{"There is no request with given id"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

// /consumer/requests
func (h *requestRoutesHandler) GetOpenRequests(c echo.Context) error {
	input := listPageInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	requests, err := h.requestService.GetOpenRequests(c.Request().Context(), pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
	}

	return c.JSON(http.StatusOK, requests)
}

// /consumer/requests/my
func (h *requestRoutesHandler) GetOwnRequests(c echo.Context) error {
	input := listPageInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	requests, err := h.requestService.GetOwnRequests(c.Request().Context(), currentPrincipal(c).Id, pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
	}

	return c.JSON(http.StatusOK, requests)
}

type updateRequestInput struct {
	ProductName  string  `json:"product_name" validate:"max=100"`
	Quantity     *int64  `json:"product_quantity"`
	Unit         string  `json:"unit" validate:"max=20"`
	PricePerUnit *string `json:"price_per_unit"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
	NeededBy     string  `json:"needed_by"`
	Description  string  `json:"description" validate:"max=1000"`
}

// /consumer/requests/:id
func (h *requestRoutesHandler) UpdateRequest(c echo.Context) error {
	var input updateRequestInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	model := &entity.UpdateRequestInput{
		ProductName: input.ProductName,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		Currency:    input.Currency,
		NeededBy:    input.NeededBy,
		Description: input.Description,
	}
	if input.PricePerUnit != nil {
		price, err := decimal.NewFromString(*input.PricePerUnit)
		if err != nil || price.IsNegative() {
			return c.JSON(http.StatusBadRequest, errorResponse{"Price must be a non-negative decimal"})
		}
		model.PricePerUnit = &price
	}

	request, err := h.requestService.UpdateRequestById(c.Request().Context(), c.Param("id"), currentPrincipal(c), model)
	if err == nil {
		return c.JSON(http.StatusOK, request)
	}

	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no request with given id"})
	case errors.Is(err, service.ErrNotEntityOwner):
		return c.JSON(http.StatusForbidden, errorResponse{"Only the owner can edit this request"})
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, errorResponse{"Quantity can't be negative"})
	case errors.Is(err, service.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, errorResponse{"Needed-by date is invalid"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

// /consumer/requests/:id
func (h *requestRoutesHandler) DeleteRequest(c echo.Context) error {
	err := h.requestService.DeleteRequestById(c.Request().Context(), c.Param("id"), currentPrincipal(c), c.QueryParam("reason"))
	if err == nil {
		return c.NoContent(http.StatusNoContent)
	}

	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no request with given id"})
	case errors.Is(err, service.ErrNotEntityOwner):
		return c.JSON(http.StatusForbidden, errorResponse{"Only the owner or an admin can delete this request"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}
