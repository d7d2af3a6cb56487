package models

import "strings"

// ServiceUnspecified is recorded when the visitor leaves the service field empty
const ServiceUnspecified = "unspecified"

// Response statuses understood by the site's form script
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ContactSubmission is a single contact form submission. Field order is the
// validation order: the first failing field is the one reported. Length caps
// (textmax) count runes of the visitor's text, not of its escaped form.
type ContactSubmission struct {
	Name    string `validate:"required,textmax=200"`
	Email   string `validate:"required,contactemail,textmax=254"`
	Message string `validate:"required,textmax=5000"`
	Service string `validate:"textmax=200"`
}

// Normalize trims every field and applies the service default
func (s *ContactSubmission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Message = strings.TrimSpace(s.Message)
	s.Service = strings.TrimSpace(s.Service)
	if s.Service == "" {
		s.Service = ServiceUnspecified
	}
}

// ContactFormRequest is the posted form, form-encoded or multipart
type ContactFormRequest struct {
	Name           string `form:"name"`
	Email          string `form:"email"`
	Service        string `form:"service"`
	Message        string `form:"message"`
	RecaptchaToken string `form:"g-recaptcha-response"`
	Lang           string `form:"lang"`
}

// Submission extracts the submission fields from the request
func (r *ContactFormRequest) Submission() *ContactSubmission {
	return &ContactSubmission{
		Name:    r.Name,
		Email:   r.Email,
		Service: r.Service,
		Message: r.Message,
	}
}

// ContactResponse is the JSON body of every contact endpoint reply
type ContactResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"` // set on validation errors
}

// IsSuccess reports whether the response carries the success status
func (r *ContactResponse) IsSuccess() bool {
	return r != nil && r.Status == StatusSuccess
}
