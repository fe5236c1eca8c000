package controller

import (
	"errors"
	"net/http"

	"agro-market-api/internal/entity"
	"agro-market-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type dealRoutesHandler struct {
	dealService service.Deal
	validate    *validator.Validate
}

func newDealRoutesHandler(secured *echo.Group, admin *echo.Group, services *service.Services, v *validator.Validate) *dealRoutesHandler {
	h := &dealRoutesHandler{dealService: services.Deal, validate: v}

	secured.POST("/deal/:kind", h.SubmitDeal)
	admin.GET("/deal/:kind/pending", h.GetPendingDeals)
	admin.PATCH("/deal/:kind", h.ResolveDeal)
	admin.DELETE("/deal/:kind", h.DeleteDeal)

	return h
}

type submitDealInput struct {
	EntityId string `json:"entity_id" validate:"required,uuid"`
}

// /deal/:kind
func (h *dealRoutesHandler) SubmitDeal(c echo.Context) error {
	var input submitDealInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	model := &entity.SubmitDealInput{
		Kind:     c.Param("kind"),
		EntityId: input.EntityId,
		OwnerId:  currentPrincipal(c).Id,
	}

	deal, err := h.dealService.SubmitDeal(c.Request().Context(), model)
	if err == nil {
		return c.JSON(http.StatusOK, deal)
	}

	switch {
	case errors.Is(err, service.ErrInvalidKind):
		return c.JSON(http.StatusBadRequest, errorResponse{"Deal kind must be farmerReq or consumerReq"})
	case errors.Is(err, service.ErrListingNotFound), errors.Is(err, service.ErrRequestNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no entity with given id"})
	case errors.Is(err, service.ErrNotEntityOwner):
		return c.JSON(http.StatusForbidden, errorResponse{"Only the owner can submit an entity for admin mediation"})
	case errors.Is(err, service.ErrDealAlreadyExists):
		return c.JSON(http.StatusConflict, errorResponse{"Entity is already wrapped by a deal record"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

type resolveDealInput struct {
	Id      string `json:"ID" validate:"required,uuid"`
	Verdict string `json:"verdict" validate:"required,oneof=Accepted Rejected"`
	// audit fields; the admin id is taken from the bearer principal
	ActionReason string `json:"action_reason"`
	// legacy spelling kept for older deployments of the admin UI
	ActionReasson string `json:"action_reasson"`
}

// /deal/:kind
func (h *dealRoutesHandler) ResolveDeal(c echo.Context) error {
	var input resolveDealInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	reason := input.ActionReason
	if reason == "" {
		reason = input.ActionReasson
	}

	deal, err := h.dealService.ResolveDeal(c.Request().Context(), input.Id, input.Verdict, currentPrincipal(c).Id, reason)
	if err == nil {
		return c.JSON(http.StatusOK, deal)
	}

	switch {
	case errors.Is(err, service.ErrDealNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no deal record with given id"})
	case errors.Is(err, service.ErrDealAlreadyResolved):
		return c.JSON(http.StatusConflict, errorResponse{"Deal record verdict is already terminal"})
	case errors.Is(err, service.ErrReasonRequired):
		return c.JSON(http.StatusBadRequest, errorResponse{"Rejection requires a reason"})
	case errors.Is(err, service.ErrInvalidVerdict):
		return c.JSON(http.StatusBadRequest, errorResponse{"Verdict must be Accepted or Rejected"})
	case errors.Is(err, service.ErrBusy):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{"Deal record is busy, try again"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

type deleteDealInput struct {
	Id     string `json:"ID" validate:"required,uuid"`
	Reason string `json:"Reason"`
}

// /deal/:kind
func (h *dealRoutesHandler) DeleteDeal(c echo.Context) error {
	var input deleteDealInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	err := h.dealService.DeleteDeal(c.Request().Context(), input.Id, currentPrincipal(c).Id, input.Reason)
	if err == nil {
		return c.NoContent(http.StatusNoContent)
	}

	switch {
	case errors.Is(err, service.ErrDealNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no deal record with given id"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

type getPendingDealsInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

// /deal/:kind/pending
func (h *dealRoutesHandler) GetPendingDeals(c echo.Context) error {
	input := getPendingDealsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	deals, err := h.dealService.GetPendingDeals(c.Request().Context(), c.Param("kind"), pg)
	if err == nil {
		return c.JSON(http.StatusOK, deals)
	}

	switch {
	case errors.Is(err, service.ErrInvalidKind):
		return c.JSON(http.StatusBadRequest, errorResponse{"Deal kind must be farmerReq or consumerReq"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}
