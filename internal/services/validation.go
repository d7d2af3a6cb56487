package services

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fixitdz/contact-relay/pkg/contactform"
	apperrors "github.com/fixitdz/contact-relay/pkg/errors"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/go-playground/validator/v10"
)

// ValidationError reports the first field that failed validation
type ValidationError struct {
	Field   string // form field name: name, email, message, service
	Key     locale.Key
	Message string // localized, safe to show to the visitor
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Key, apperrors.ErrInvalidInput)
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// newValidator registers the contact form tags on a fresh validator
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return contactform.ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("textmax", textMax)
	return v
}

// textMax caps the rune count of a sanitized field as the visitor typed it
func textMax(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(html.UnescapeString(fl.Field().String())) <= limit
}

// firstValidationError maps the first validator failure onto a message key
func firstValidationError(err error) (field string, key locale.Key, ok bool) {
	validationErrors, isValidation := err.(validator.ValidationErrors)
	if !isValidation || len(validationErrors) == 0 {
		return "", "", false
	}

	fe := validationErrors[0]
	field = strings.ToLower(fe.Field())
	return field, messageKey(field, fe.Tag()), true
}

func messageKey(field, tag string) locale.Key {
	switch tag {
	case "required":
		switch field {
		case "name":
			return locale.NameRequired
		case "email":
			return locale.EmailRequired
		case "message":
			return locale.MessageRequired
		}
	case "email", "contactemail":
		return locale.EmailInvalid
	case "max", "textmax":
		return locale.FieldTooLong
	}
	return locale.InvalidRequest
}
