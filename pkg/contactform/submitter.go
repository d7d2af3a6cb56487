package contactform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fixitdz/contact-relay/pkg/httpclient"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/fixitdz/contact-relay/pkg/logger"
	"go.uber.org/zap"
)

const (
	DefaultDismissAfter = 7 * time.Second
	DefaultFadeDuration = 300 * time.Millisecond

	maxResponseBytes = 64 << 10
	statusSuccess    = "success"
)

var (
	// ErrRejected is returned when local validation fails; no request is made
	ErrRejected = errors.New("submission rejected")
	// ErrInFlight is returned while a previous submission is pending
	ErrInFlight = errors.New("submission already in flight")
	// ErrNetwork wraps transport failures where no response arrived
	ErrNetwork = errors.New("network error")
	// ErrFailed is returned when the relay answered with anything but success
	ErrFailed = errors.New("submission failed")
)

// ServerError describes a relay reply that was not a success.
type ServerError struct {
	StatusCode int
	Message    string
	Field      Field
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("relay returned status %d: %s", e.StatusCode, e.Message)
}

func (e *ServerError) Unwrap() error {
	return ErrFailed
}

// Outcome reports how a submission ended.
type Outcome struct {
	State   State
	Message string
	Field   Field // set when a field was at fault
}

// Config configures a Submitter.
type Config struct {
	Endpoint     string
	Locale       string
	Catalog      *locale.Catalog
	HTTPClient   httpclient.Client
	Clock        Clock
	DismissAfter time.Duration
	FadeDuration time.Duration
}

type relayResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

// Submitter validates and posts a contact form, one submission at a time.
type Submitter struct {
	endpoint     string
	locale       string
	catalog      *locale.Catalog
	client       httpclient.Client
	clock        Clock
	dismissAfter time.Duration
	fadeDuration time.Duration
	view         View

	submitting atomic.Bool
	state      atomic.Int32

	mu     sync.Mutex
	timers []Timer
	gen    uint64 // bumped by Close; callbacks from an older gen schedule nothing
}

// NewSubmitter creates a Submitter that renders into view.
func NewSubmitter(cfg Config, view View) *Submitter {
	if cfg.Catalog == nil {
		cfg.Catalog = locale.NewCatalog(cfg.Locale)
	}
	if cfg.Locale == "" {
		cfg.Locale = cfg.Catalog.Default()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpclient.NewStandardClient()
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	if cfg.DismissAfter == 0 {
		cfg.DismissAfter = DefaultDismissAfter
	}
	if cfg.FadeDuration == 0 {
		cfg.FadeDuration = DefaultFadeDuration
	}

	return &Submitter{
		endpoint:     cfg.Endpoint,
		locale:       cfg.Locale,
		catalog:      cfg.Catalog,
		client:       cfg.HTTPClient,
		clock:        cfg.Clock,
		dismissAfter: cfg.DismissAfter,
		fadeDuration: cfg.FadeDuration,
		view:         view,
	}
}

// State returns the current step. It is StateIdle between submissions.
func (s *Submitter) State() State {
	return State(s.state.Load())
}

func (s *Submitter) setState(st State) {
	s.state.Store(int32(st))
}

// Submit runs one submission. While it is pending the submit control stays
// disabled and further calls return ErrInFlight without touching the view.
func (s *Submitter) Submit(ctx context.Context, f Fields) (Outcome, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return Outcome{}, ErrInFlight
	}
	defer s.submitting.Store(false)
	defer s.setState(StateIdle)

	s.clearMessages()
	s.setState(StateValidating)

	f = f.Trimmed()
	if fe := Validate(f); fe != nil {
		s.setState(StateRejected)
		msg := s.catalog.Message(s.locale, fe.Key)
		s.view.ShowBanner(Banner{Kind: BannerError, Text: msg})
		s.view.Focus(fe.Field)
		return Outcome{State: StateRejected, Message: msg, Field: fe.Field}, fe
	}

	s.setState(StateSubmitting)
	s.view.SetSubmitting(true, s.catalog.Message(s.locale, locale.Sending))
	defer s.view.SetSubmitting(false, "")

	reply, err := s.post(ctx, f)
	if err != nil {
		return s.fail(err), err
	}

	msg := reply.Message
	if msg == "" {
		msg = s.catalog.Message(s.locale, locale.Sent)
	}

	s.setState(StateSucceeded)
	s.view.Reset()
	id := s.view.ShowBanner(Banner{Kind: BannerSuccess, Text: msg})
	s.scheduleDismiss(id)

	return Outcome{State: StateSucceeded, Message: msg}, nil
}

// Close stops pending banner timers.
func (s *Submitter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.gen++
}

func (s *Submitter) post(ctx context.Context, f Fields) (*relayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(f.Values().Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", s.locale)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("Contact form request failed",
			zap.String("endpoint", s.endpoint),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	var reply relayResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&reply)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || reply.Status != statusSuccess {
		if decodeErr != nil {
			logger.Debug("Contact relay reply was not JSON",
				zap.Int("status_code", resp.StatusCode),
				zap.Error(decodeErr),
			)
		}
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Message:    reply.Message,
			Field:      Field(reply.Field),
		}
	}

	return &reply, nil
}

// fail renders a failure banner. Error banners persist until the next
// submission clears the message area.
func (s *Submitter) fail(err error) Outcome {
	s.setState(StateFailed)
	out := Outcome{State: StateFailed}

	var serverErr *ServerError
	switch {
	case errors.As(err, &serverErr):
		out.Message = serverErr.Message
		out.Field = serverErr.Field
		if out.Message == "" {
			out.Message = s.catalog.Message(s.locale, locale.GenericError)
		}
	default:
		out.Message = s.catalog.Message(s.locale, locale.NetworkError)
	}

	s.view.ShowBanner(Banner{Kind: BannerError, Text: out.Message})
	if out.Field != "" {
		s.view.Focus(out.Field)
	}
	return out
}

func (s *Submitter) clearMessages() {
	s.Close()
	s.view.ClearMessages()
}

func (s *Submitter) scheduleDismiss(id BannerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.gen
	fade := s.clock.AfterFunc(s.dismissAfter, func() {
		s.view.FadeBanner(id)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return
		}
		s.timers = append(s.timers, s.clock.AfterFunc(s.fadeDuration, func() {
			s.view.RemoveBanner(id)
		}))
	})
	s.timers = append(s.timers, fade)
}
