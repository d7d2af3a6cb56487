package services

import (
	"context"

	"github.com/fixitdz/contact-relay/internal/models"
)

// ContactServiceInterface defines the interface for contact service operations
type ContactServiceInterface interface {
	SubmitContactForm(ctx context.Context, sub *models.ContactSubmission, opts SubmitOptions) (*models.ContactResponse, error)
}

// Ensure services implement their interfaces
var _ ContactServiceInterface = (*ContactService)(nil)
