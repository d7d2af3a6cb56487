package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fixitdz/contact-relay/config"
	"github.com/fixitdz/contact-relay/internal/models"
	apperrors "github.com/fixitdz/contact-relay/pkg/errors"
	"github.com/fixitdz/contact-relay/pkg/httpclient"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/fixitdz/contact-relay/pkg/logger"
	"github.com/fixitdz/contact-relay/pkg/mailer"
	"github.com/fixitdz/contact-relay/pkg/metrics"
	"github.com/fixitdz/contact-relay/pkg/recaptcha"
	"github.com/fixitdz/contact-relay/pkg/sanitize"
	"github.com/fixitdz/contact-relay/pkg/tracing"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// SubmitOptions carries request context that is not part of the submission
type SubmitOptions struct {
	Locale         string
	RecaptchaToken string
	RemoteIP       string
}

// ContactService validates contact form submissions and relays them by mail
type ContactService struct {
	mailer            mailer.Mailer
	config            *config.Config
	catalog           *locale.Catalog
	recaptchaVerifier *recaptcha.Verifier
	validate          *validator.Validate
	now               func() time.Time
}

// NewContactService creates a new contact service instance
func NewContactService(
	m mailer.Mailer,
	cfg *config.Config,
	catalog *locale.Catalog,
	httpClient httpclient.Client,
) *ContactService {

	return &ContactService{
		mailer:            m,
		config:            cfg,
		catalog:           catalog,
		recaptchaVerifier: recaptcha.NewVerifier(cfg.ReCAPTCHA.SecretKey, httpClient),
		validate:          newValidator(),
		now:               time.Now,
	}
}

// SetClock replaces the time source used for the body timestamp
func (s *ContactService) SetClock(now func() time.Time) {
	s.now = now
}

// SubmitContactForm runs one submission through captcha, sanitization,
// validation and a single mail dispatch. The response is always populated
// with a message fit for the visitor; the error classifies failures
// (*ValidationError or apperrors.ErrDispatch).
func (s *ContactService) SubmitContactForm(ctx context.Context, sub *models.ContactSubmission, opts SubmitOptions) (*models.ContactResponse, error) {
	loc := opts.Locale
	if loc == "" {
		loc = s.catalog.Default()
	}

	// Verify ReCAPTCHA when configured
	if s.recaptchaVerifier.Enabled() {
		if err := s.recaptchaVerifier.Verify(ctx, opts.RecaptchaToken, opts.RemoteIP); err != nil {
			metrics.ContactFormSubmissions.WithLabelValues("captcha_failed").Inc()
			logger.Warn("ReCAPTCHA verification failed", zap.Error(err))
			return s.reject(loc, "g-recaptcha-response", locale.CaptchaFailed)
		}
	}

	clean := sanitizeSubmission(sub)

	if err := s.validate.Struct(clean); err != nil {
		field, key, ok := firstValidationError(err)
		if !ok {
			logger.Error("Unexpected validation failure", zap.Error(err))
			field, key = "", locale.InvalidRequest
		}
		metrics.ContactFormSubmissions.WithLabelValues("validation_failed").Inc()
		return s.reject(loc, field, key)
	}

	msg := s.compose(clean)

	if err := s.dispatch(ctx, msg); err != nil {
		metrics.ContactFormSubmissions.WithLabelValues("dispatch_failed").Inc()
		logger.Error("Contact mail dispatch failed",
			zap.Error(err),
			zap.Strings("recipients", msg.To),
			zap.String("sender", s.config.Contact.FromAddress),
			zap.String("reply_to", msg.ReplyTo),
			zap.String("subject", msg.Subject),
			zap.String("driver", s.mailer.Driver()),
		)
		return &models.ContactResponse{
			Status:  models.StatusError,
			Message: s.catalog.Message(loc, locale.SendFailed),
		}, apperrors.DispatchError("contact mail", err)
	}

	metrics.ContactFormSubmissions.WithLabelValues("success").Inc()
	logger.Info("Contact mail dispatched",
		zap.Strings("recipients", msg.To),
		zap.String("service", clean.Service),
	)

	return &models.ContactResponse{
		Status:  models.StatusSuccess,
		Message: s.catalog.Message(loc, locale.Sent),
	}, nil
}

func (s *ContactService) reject(loc, field string, key locale.Key) (*models.ContactResponse, error) {
	msg := s.catalog.Message(loc, key)
	return &models.ContactResponse{
			Status:  models.StatusError,
			Message: msg,
			Field:   field,
		}, &ValidationError{
			Field:   field,
			Key:     key,
			Message: msg,
		}
}

func (s *ContactService) dispatch(ctx context.Context, msg mailer.Message) error {
	ctx, span := tracing.StartSpan(ctx, "contact.dispatch",
		attribute.String("mail.driver", s.mailer.Driver()),
		attribute.Int("mail.recipients", len(msg.To)),
	)
	defer span.End()

	start := time.Now()
	err := s.mailer.Send(ctx, msg)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
	}
	metrics.MailDispatchDuration.WithLabelValues(s.mailer.Driver(), status).Observe(metrics.MeasureDuration(start))

	return err
}

// sanitizeSubmission escapes free-text fields, strips line breaks from the
// values that reach mail headers, then trims and defaults.
func sanitizeSubmission(sub *models.ContactSubmission) *models.ContactSubmission {
	clean := &models.ContactSubmission{
		Name:    sanitize.Header(sanitize.Text(sub.Name)),
		Email:   sanitize.Header(sub.Email),
		Message: sanitize.Text(sub.Message),
		Service: sanitize.Header(sanitize.Text(sub.Service)),
	}
	clean.Normalize()
	return clean
}

func (s *ContactService) compose(sub *models.ContactSubmission) mailer.Message {
	subject := strings.TrimSpace(fmt.Sprintf("%s New message from %s", s.config.Contact.SubjectPrefix, sub.Name))

	var body strings.Builder
	body.WriteString("You have received a new message from your website contact form:\n\n")
	fmt.Fprintf(&body, "Name: %s\n", sub.Name)
	fmt.Fprintf(&body, "Email: %s\n", sub.Email)
	fmt.Fprintf(&body, "Service Requested: %s\n", sub.Service)
	fmt.Fprintf(&body, "Received: %s\n\n", s.now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&body, "Message:\n%s\n\n", sub.Message)
	body.WriteString("-------------------------------------\n")
	body.WriteString("This email was sent from the contact form on your website.")

	return mailer.Message{
		To:       s.config.Contact.Recipients,
		Subject:  subject,
		TextBody: body.String(),
		ReplyTo:  sub.Email,
	}
}
