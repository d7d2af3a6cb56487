// Package contactform is the client half of the contact pipeline: it checks a
// visitor's input locally, posts it to the mail relay and drives a View with
// the outcome.
package contactform

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/fixitdz/contact-relay/pkg/locale"
)

// Field names a form control. Values match the posted field names.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldService Field = "service"
	FieldMessage Field = "message"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the shape local@domain.tld with no
// whitespace. The relay applies the same rule.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Fields holds the current values of the four form controls.
type Fields struct {
	Name    string
	Email   string
	Service string
	Message string
}

// Trimmed returns a copy with surrounding whitespace removed.
func (f Fields) Trimmed() Fields {
	return Fields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Service: strings.TrimSpace(f.Service),
		Message: strings.TrimSpace(f.Message),
	}
}

// Values encodes the fields as the form body the relay expects.
func (f Fields) Values() url.Values {
	v := url.Values{}
	v.Set(string(FieldName), f.Name)
	v.Set(string(FieldEmail), f.Email)
	v.Set(string(FieldService), f.Service)
	v.Set(string(FieldMessage), f.Message)
	return v
}

// FieldError is a local validation failure. It unwraps to ErrRejected.
type FieldError struct {
	Field Field
	Key   locale.Key
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Key)
}

func (e *FieldError) Unwrap() error {
	return ErrRejected
}

// Validate checks f in order: name, email presence, email shape, message.
// The first failure is returned; nil means the form may be sent.
func Validate(f Fields) *FieldError {
	f = f.Trimmed()

	switch {
	case f.Name == "":
		return &FieldError{Field: FieldName, Key: locale.NameRequired}
	case f.Email == "":
		return &FieldError{Field: FieldEmail, Key: locale.EmailRequired}
	case !ValidEmail(f.Email):
		return &FieldError{Field: FieldEmail, Key: locale.EmailInvalid}
	case f.Message == "":
		return &FieldError{Field: FieldMessage, Key: locale.MessageRequired}
	}
	return nil
}
