package handlers

import (
	"net/http"

	"github.com/fixitdz/contact-relay/internal/models"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response in the shape the site's form
// script reads and attaches err to the gin context for the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, models.ContactResponse{Status: models.StatusError, Message: message})
}

// requestLocale picks the response language from the Accept-Language header
// and an optional explicit code.
func requestLocale(c *gin.Context, catalog *locale.Catalog, explicit string) string {
	return catalog.Match(explicit, c.GetHeader("Accept-Language"))
}

// FallbackHandler answers requests that match no route or no method
type FallbackHandler struct {
	catalog *locale.Catalog
}

func NewFallbackHandler(catalog *locale.Catalog) *FallbackHandler {
	return &FallbackHandler{catalog: catalog}
}

// MethodNotAllowed is installed as the router's NoMethod handler
func (h *FallbackHandler) MethodNotAllowed(c *gin.Context) {
	loc := requestLocale(c, h.catalog, "")
	respondError(c, http.StatusMethodNotAllowed, h.catalog.Message(loc, locale.MethodNotAllowed), nil)
}

// NotFound is installed as the router's NoRoute handler
func (h *FallbackHandler) NotFound(c *gin.Context) {
	loc := requestLocale(c, h.catalog, "")
	respondError(c, http.StatusNotFound, h.catalog.Message(loc, locale.NotFound), nil)
}
