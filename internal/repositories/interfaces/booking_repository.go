package interfaces

import (
	"context"

	"ambudispatch/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error

	// GetByID returns models.ErrNotFound when the booking does not exist.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// UserDirectory reads basic profile fields from the user store owned by the
// identity service.
type UserDirectory interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}
