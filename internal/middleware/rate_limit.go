package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/fixitdz/contact-relay/internal/models"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/fixitdz/contact-relay/pkg/metrics"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	visitorTTL          = 10 * time.Minute
	visitorCleanupEvery = time.Minute
)

// RateLimiter implements an in-memory rate limiter per IP address. Idle
// visitors expire from the cache after visitorTTL.
type RateLimiter struct {
	visitors *gocache.Cache
	mu       sync.Mutex
	r        rate.Limit // requests per second
	b        int        // burst size
	catalog  *locale.Catalog
}

// NewRateLimiter creates a new rate limiter
// r: requests per second (e.g., 0.2 means one request every five seconds)
// b: burst size (e.g., 5 means allow bursts of up to 5 requests)
func NewRateLimiter(r rate.Limit, b int, catalog *locale.Catalog) *RateLimiter {
	return &RateLimiter{
		visitors: gocache.New(visitorTTL, visitorCleanupEvery),
		r:        r,
		b:        b,
		catalog:  catalog,
	}
}

// getVisitor returns the rate limiter for a given IP address and refreshes
// its expiry
func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.visitors.Get(ip)
	if !exists {
		limiter = rate.NewLimiter(rl.r, rl.b)
	}
	rl.visitors.SetDefault(ip, limiter)

	return limiter.(*rate.Limiter)
}

// Visitors returns the number of tracked IP addresses
func (rl *RateLimiter) Visitors() int {
	return rl.visitors.ItemCount()
}

// Middleware returns a Gin middleware function for rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := rl.getVisitor(ip)

		if !limiter.Allow() {
			metrics.RateLimitedRequests.WithLabelValues(c.FullPath()).Inc()
			loc := rl.catalog.Match("", c.GetHeader("Accept-Language"))
			c.JSON(http.StatusTooManyRequests, models.ContactResponse{
				Status:  models.StatusError,
				Message: rl.catalog.Message(loc, locale.RateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
