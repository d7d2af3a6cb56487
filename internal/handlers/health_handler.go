package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fixitdz/contact-relay/pkg/mailer"
	"github.com/gin-gonic/gin"
)

const healthProbeTimeout = 5 * time.Second

type HealthHandler struct {
	checker mailer.Checker
}

// NewHealthHandler creates the health handler. checker may be nil, in which
// case only liveness is reported.
func NewHealthHandler(checker mailer.Checker) *HealthHandler {
	return &HealthHandler{
		checker: checker,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if h.checker != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()

		if err := h.checker.Check(ctx); err != nil {
			attachError(c, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "mail relay unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
