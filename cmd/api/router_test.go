package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitdz/contact-relay/config"
	"github.com/fixitdz/contact-relay/internal/handlers"
	"github.com/fixitdz/contact-relay/internal/services"
	"github.com/fixitdz/contact-relay/pkg/httpclient"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/fixitdz/contact-relay/pkg/logger"
	"github.com/fixitdz/contact-relay/pkg/mailer"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitializeNop()
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			AppEnv:         "production",
			AllowedOrigins: []string{"https://fixit.dz"},
		},
		Contact: config.ContactConfig{
			Recipients:     []string{"owner@fixit.dz"},
			FromAddress:    "noreply@fixit.dz",
			DefaultLocale:  "en",
			RateLimitRPS:   1,
			RateLimitBurst: 5,
			MaxBodyBytes:   1 << 16,
		},
		Observability: config.ObservabilityConfig{ServiceName: "contact-relay"},
	}

	catalog := locale.NewCatalog(cfg.Contact.DefaultLocale)
	svc := services.NewContactService(mailer.NewLogMailer(mailer.Sender{Address: cfg.Contact.FromAddress}), cfg, catalog, httpclient.NewStandardClient())

	return newRouter(cfg, routerDeps{
		catalog:  catalog,
		contact:  handlers.NewContactHandler(svc, catalog, cfg.Contact.ValidationStatus),
		health:   handlers.NewHealthHandler(nil),
		fallback: handlers.NewFallbackHandler(catalog),
	})
}

func TestRouter_MethodAndRouteFallbacks(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"GET on legacy path", http.MethodGet, "/send_email.php", http.StatusMethodNotAllowed, `{"status":"error","message":"Invalid request method."}`},
		{"PUT on contact path", http.MethodPut, "/api/v1/contact", http.StatusMethodNotAllowed, `{"status":"error","message":"Invalid request method."}`},
		{"unknown path", http.MethodPost, "/contact.php", http.StatusNotFound, `{"status":"error","message":"Not found."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			req.Header.Set("Accept-Language", "en")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/send_email.php", http.NoBody)
	req.Header.Set("Origin", "https://fixit.dz")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://fixit.dz", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/send_email.php", http.NoBody)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ContactRoutes(t *testing.T) {
	router := testRouter(t)
	form := url.Values{"name": {"Ali"}, "email": {"ali@test.com"}, "message": {"Need help"}, "lang": {"en"}}.Encode()

	for _, path := range []string{"/send_email.php", "/api/v1/contact"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"status":"success","message":"Your message has been sent! We will get back to you soon."}`, w.Body.String())
		})
	}
}

func TestRouter_Healthcheck(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/healthcheck", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
