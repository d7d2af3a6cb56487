package contactform

import "time"

// State is a step of one submission.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateRejected
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BannerKind selects how a banner is styled.
type BannerKind int

const (
	BannerSuccess BannerKind = iota
	BannerError
)

// Banner is a status message shown in the form-message area.
type Banner struct {
	Kind BannerKind
	Text string
}

// BannerID identifies a banner handed out by a View.
type BannerID int

// View is the rendering surface the Submitter drives. FadeBanner and
// RemoveBanner may be called from a timer goroutine.
type View interface {
	// SetSubmitting disables the submit control and shows label while true.
	SetSubmitting(submitting bool, label string)
	ClearMessages()
	ShowBanner(b Banner) BannerID
	FadeBanner(id BannerID)
	RemoveBanner(id BannerID)
	Focus(field Field)
	// Reset clears every form control.
	Reset()
}

// Timer is a pending Clock callback.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
