package controller

import (
	"errors"
	"net/http"

	"agro-market-api/internal/common"
	"agro-market-api/internal/entity"
	"agro-market-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(secured *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}

	secured.POST("/bids", h.PlaceBid)
	secured.PATCH("/bids", h.SettleBid)
	secured.GET("/bids/my", h.GetOwnBids)
	secured.GET("/bids/:kind/:targetId/list", h.GetTargetBids)

	return h
}

type placeBidInput struct {
	TargetKind string `json:"target_kind" validate:"required,oneof=farmerReq consumerReq"`
	TargetId   string `json:"target_id" validate:"required,uuid"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
	Price      string `json:"price" validate:"required"`
	Message    string `json:"message" validate:"max=500"`
}

// /bids
func (h *bidRoutesHandler) PlaceBid(c echo.Context) error {
	var input placeBidInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		return c.JSON(http.StatusBadRequest, errorResponse{"Price must be a non-negative decimal"})
	}

	model := &entity.PlaceBidInput{
		TargetKind: input.TargetKind,
		TargetId:   input.TargetId,
		BidderId:   currentPrincipal(c).Id,
		Quantity:   input.Quantity,
		Price:      price,
		Message:    input.Message,
	}

	bid, err := h.bidService.PlaceBid(c.Request().Context(), model)
	if err == nil {
		return c.JSON(http.StatusOK, bid)
	}

	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, errorResponse{"Quantity must be positive"})
	case errors.Is(err, service.ErrListingNotFound), errors.Is(err, service.ErrRequestNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no target with given id"})
	case errors.Is(err, service.ErrTargetUnavailable):
		return c.JSON(http.StatusConflict, errorResponse{"Listing has no quantity left to bid on"})
	case errors.Is(err, service.ErrOwnBidNotAllowed):
		return c.JSON(http.StatusForbidden, errorResponse{"You can't bid on your own listing or request"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

type settleBidInput struct {
	Id     string `json:"_id" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=Accepted Rejected"`
	Reason string `json:"reason" validate:"max=500"`
}

// /bids
func (h *bidRoutesHandler) SettleBid(c echo.Context) error {
	var input settleBidInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	decision := common.AcceptDecision
	if input.Status == common.Rejected {
		decision = common.RejectDecision
	}

	bid, err := h.bidService.SettleBid(c.Request().Context(), input.Id, decision, currentPrincipal(c), input.Reason)
	if err == nil {
		return c.JSON(http.StatusOK, bid)
	}

	switch {
	case errors.Is(err, service.ErrBidNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no bid with given id"})
	case errors.Is(err, service.ErrBidAlreadySettled):
		return c.JSON(http.StatusConflict, errorResponse{"Bid is already settled"})
	case errors.Is(err, service.ErrReasonRequired):
		return c.JSON(http.StatusBadRequest, errorResponse{"Rejection requires a reason"})
	case errors.Is(err, service.ErrInsufficientInventory):
		return c.JSON(http.StatusConflict, errorResponse{"Listing quantity doesn't cover the bid"})
	case errors.Is(err, service.ErrNoAccessToBid):
		return c.JSON(http.StatusForbidden, errorResponse{"Only the target owner or an admin can settle this bid"})
	case errors.Is(err, service.ErrListingNotFound), errors.Is(err, service.ErrRequestNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"The bid target no longer exists"})
	case errors.Is(err, service.ErrBusy):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{"Listing is busy with another settlement, try again"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

type listBidsInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

// /bids/my
func (h *bidRoutesHandler) GetOwnBids(c echo.Context) error {
	input := listBidsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.bidService.GetOwnBids(c.Request().Context(), currentPrincipal(c).Id, pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
	}

	return c.JSON(http.StatusOK, bids)
}

// /bids/:kind/:targetId/list
func (h *bidRoutesHandler) GetTargetBids(c echo.Context) error {
	input := listBidsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.bidService.GetTargetBids(c.Request().Context(), c.Param("kind"), c.Param("targetId"), currentPrincipal(c), pg)
	if err == nil {
		return c.JSON(http.StatusOK, bids)
	}

	switch {
	case errors.Is(err, service.ErrInvalidKind):
		return c.JSON(http.StatusBadRequest, errorResponse{"Deal kind must be farmerReq or consumerReq"})
	case errors.Is(err, service.ErrListingNotFound), errors.Is(err, service.ErrRequestNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no target with given id"})
	case errors.Is(err, service.ErrNoAccessToBid):
		return c.JSON(http.StatusForbidden, errorResponse{"Only the target owner or an admin can list these bids"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}
