package handlers

import (
	"errors"
	"net/http"

	"github.com/fixitdz/contact-relay/internal/models"
	"github.com/fixitdz/contact-relay/internal/services"
	apperrors "github.com/fixitdz/contact-relay/pkg/errors"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ContactHandler struct {
	service          services.ContactServiceInterface
	catalog          *locale.Catalog
	validationStatus int
}

// NewContactHandler creates the contact form handler. validationStatus is the
// HTTP status used for rejected submissions; legacy site scripts expect 200.
func NewContactHandler(service services.ContactServiceInterface, catalog *locale.Catalog, validationStatus int) *ContactHandler {
	if validationStatus == 0 {
		validationStatus = http.StatusBadRequest
	}
	return &ContactHandler{
		service:          service,
		catalog:          catalog,
		validationStatus: validationStatus,
	}
}

func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req models.ContactFormRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		loc := requestLocale(c, h.catalog, "")
		respondError(c, http.StatusBadRequest, h.catalog.Message(loc, locale.InvalidRequest), err)
		return
	}

	loc := requestLocale(c, h.catalog, req.Lang)
	resp, err := h.service.SubmitContactForm(c.Request.Context(), req.Submission(), services.SubmitOptions{
		Locale:         loc,
		RecaptchaToken: req.RecaptchaToken,
		RemoteIP:       c.ClientIP(),
	})
	if err != nil {
		attachError(c, err)

		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(h.validationStatus, resp)
		case apperrors.Is(err, apperrors.ErrDispatch):
			c.JSON(http.StatusInternalServerError, resp)
		default:
			c.JSON(http.StatusInternalServerError, models.ContactResponse{
				Status:  models.StatusError,
				Message: h.catalog.Message(loc, locale.GenericError),
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
