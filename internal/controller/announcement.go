package controller

import (
	"errors"
	"net/http"

	"agro-market-api/internal/entity"
	"agro-market-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type announcementRoutesHandler struct {
	announcementService service.Announcement
	validate            *validator.Validate
}

func newAnnouncementRoutesHandler(public *echo.Group, admin *echo.Group, services *service.Services, v *validator.Validate) *announcementRoutesHandler {
	h := &announcementRoutesHandler{announcementService: services.Announcement, validate: v}

	public.GET("/announcements", h.GetAnnouncements)
	admin.POST("/announcements", h.SendAnnouncement)

	return h
}

type sendAnnouncementInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required,max=5000"`
}

// /announcements
func (h *announcementRoutesHandler) SendAnnouncement(c echo.Context) error {
	var input sendAnnouncementInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	announcement, err := h.announcementService.SendAnnouncement(c.Request().Context(), currentPrincipal(c).Id, input.Title, input.Body)
	if err == nil {
		return c.JSON(http.StatusOK, announcement)
	}

	if errors.Is(err, service.ErrEmptyAnnouncement) {
		return c.JSON(http.StatusBadRequest, errorResponse{"Announcement title and body can't be empty"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

// /announcements
func (h *announcementRoutesHandler) GetAnnouncements(c echo.Context) error {
	input := listPageInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	announcements, err := h.announcementService.GetAnnouncements(c.Request().Context(), pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
	}

	return c.JSON(http.StatusOK, announcements)
}
