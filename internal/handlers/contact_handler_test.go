package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fixitdz/contact-relay/internal/models"
	"github.com/fixitdz/contact-relay/internal/services"
	apperrors "github.com/fixitdz/contact-relay/pkg/errors"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) SubmitContactForm(ctx context.Context, sub *models.ContactSubmission, opts services.SubmitOptions) (*models.ContactResponse, error) {
	args := m.Called(ctx, sub, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactResponse), args.Error(1)
}

func setupContactRouter(svc services.ContactServiceInterface, validationStatus int) *gin.Engine {
	catalog := locale.NewCatalog("ar")
	contact := NewContactHandler(svc, catalog, validationStatus)
	fallback := NewFallbackHandler(catalog)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(fallback.MethodNotAllowed)
	router.NoRoute(fallback.NotFound)
	router.POST("/api/v1/contact", contact.SubmitContact)
	router.POST("/send_email.php", contact.SubmitContact)
	return router
}

func postForm(router http.Handler, path string, form url.Values, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Ali"},
		"email":   {"ali@test.com"},
		"service": {"Plumbing"},
		"message": {"Need help"},
	}
}

func TestContactHandler_Success(t *testing.T) {
	svc := new(MockContactService)
	router := setupContactRouter(svc, 0)

	svc.On("SubmitContactForm", mock.Anything, &models.ContactSubmission{
		Name:    "Ali",
		Email:   "ali@test.com",
		Service: "Plumbing",
		Message: "Need help",
	}, mock.MatchedBy(func(opts services.SubmitOptions) bool {
		return opts.Locale == "en"
	})).Return(&models.ContactResponse{Status: models.StatusSuccess, Message: "sent"}, nil).Once()

	w := postForm(router, "/api/v1/contact", validForm(), map[string]string{"Accept-Language": "en-US,en;q=0.9"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"sent"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestContactHandler_LegacyPath(t *testing.T) {
	svc := new(MockContactService)
	router := setupContactRouter(svc, 0)

	svc.On("SubmitContactForm", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.ContactResponse{Status: models.StatusSuccess, Message: "sent"}, nil).Once()

	w := postForm(router, "/send_email.php", validForm(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestContactHandler_Multipart(t *testing.T) {
	svc := new(MockContactService)
	router := setupContactRouter(svc, 0)

	svc.On("SubmitContactForm", mock.Anything, mock.MatchedBy(func(sub *models.ContactSubmission) bool {
		return sub.Name == "Ali" && sub.Message == "Need help"
	}), mock.Anything).Return(&models.ContactResponse{Status: models.StatusSuccess, Message: "sent"}, nil).Once()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range validForm() {
		require.NoError(t, mw.WriteField(k, v[0]))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/send_email.php", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestContactHandler_LocaleFromForm(t *testing.T) {
	svc := new(MockContactService)
	router := setupContactRouter(svc, 0)

	svc.On("SubmitContactForm", mock.Anything, mock.Anything, mock.MatchedBy(func(opts services.SubmitOptions) bool {
		return opts.Locale == "fr"
	})).Return(&models.ContactResponse{Status: models.StatusSuccess, Message: "ok"}, nil).Once()

	form := validForm()
	form.Set("lang", "fr")
	w := postForm(router, "/api/v1/contact", form, map[string]string{"Accept-Language": "en"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestContactHandler_ValidationError(t *testing.T) {
	tests := []struct {
		name             string
		validationStatus int
		expectedStatus   int
	}{
		{name: "default status", validationStatus: 0, expectedStatus: http.StatusBadRequest},
		{name: "legacy status", validationStatus: http.StatusOK, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockContactService)
			router := setupContactRouter(svc, tt.validationStatus)

			svc.On("SubmitContactForm", mock.Anything, mock.Anything, mock.Anything).Return(
				&models.ContactResponse{Status: models.StatusError, Message: "Please enter your name.", Field: "name"},
				&services.ValidationError{Field: "name", Key: locale.NameRequired, Message: "Please enter your name."},
			).Once()

			w := postForm(router, "/api/v1/contact", url.Values{}, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, `{"status":"error","message":"Please enter your name.","field":"name"}`, w.Body.String())
		})
	}
}

func TestContactHandler_DispatchError(t *testing.T) {
	svc := new(MockContactService)
	router := setupContactRouter(svc, 0)

	svc.On("SubmitContactForm", mock.Anything, mock.Anything, mock.Anything).Return(
		&models.ContactResponse{Status: models.StatusError, Message: "Sorry"},
		apperrors.DispatchError("contact mail", errors.New("535 auth failed")),
	).Once()

	w := postForm(router, "/api/v1/contact", validForm(), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Sorry"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "535")
}

func TestContactHandler_UnexpectedError(t *testing.T) {
	svc := new(MockContactService)
	router := setupContactRouter(svc, 0)

	svc.On("SubmitContactForm", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom")).Once()

	w := postForm(router, "/api/v1/contact", validForm(), map[string]string{"Accept-Language": "en"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"An error occurred. Please try again."}`, w.Body.String())
}

func TestContactHandler_MalformedBody(t *testing.T) {
	svc := new(MockContactService)
	router := setupContactRouter(svc, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader("--x\r\nbroken"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	req.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Invalid request."}`, w.Body.String())
	svc.AssertNotCalled(t, "SubmitContactForm", mock.Anything, mock.Anything, mock.Anything)
}

func TestContactHandler_MethodNotAllowed(t *testing.T) {
	svc := new(MockContactService)
	router := setupContactRouter(svc, 0)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/send_email.php", http.NoBody)
			req.Header.Set("Accept-Language", "en")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.JSONEq(t, `{"status":"error","message":"Invalid request method."}`, w.Body.String())
		})
	}
	svc.AssertNotCalled(t, "SubmitContactForm", mock.Anything, mock.Anything, mock.Anything)
}

func TestFallbackHandler_NotFound(t *testing.T) {
	router := setupContactRouter(new(MockContactService), 0)

	req := httptest.NewRequest(http.MethodGet, "/nope", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}
