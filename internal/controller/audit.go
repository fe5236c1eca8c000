package controller

import (
	"net/http"

	"agro-market-api/internal/entity"
	"agro-market-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type auditRoutesHandler struct {
	auditService service.Audit
	validate     *validator.Validate
}

func newAuditRoutesHandler(admin *echo.Group, services *service.Services, v *validator.Validate) *auditRoutesHandler {
	h := &auditRoutesHandler{auditService: services.Audit, validate: v}

	admin.GET("/auditLogs", h.GetAuditLogs)

	return h
}

type auditQueryInput struct {
	Action  string `query:"action" validate:"max=50"`
	AdminId string `query:"adminId" validate:"omitempty,uuid"`
	From    string `query:"from"`
	To      string `query:"to"`
	Limit   int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset  int32  `query:"offset" validate:"gte=0"`
}

// /auditLogs
func (h *auditRoutesHandler) GetAuditLogs(c echo.Context) error {
	input := auditQueryInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	filter := &entity.AuditFilter{
		Action:  input.Action,
		AdminId: input.AdminId,
		From:    input.From,
		To:      input.To,
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	entries, err := h.auditService.Query(c.Request().Context(), filter, pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
	}

	return c.JSON(http.StatusOK, entries)
}
