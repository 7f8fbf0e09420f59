package interfaces

import (
	"context"

	"ambudispatch/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AmbulanceRepository interface {
	// GetByID returns models.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ambulance, error)

	// GetAvailable returns every ambulance with status available, in stable
	// pool iteration order.
	GetAvailable(ctx context.Context) ([]*models.Ambulance, error)

	// AssignIfAvailable conditionally moves one ambulance from available to
	// on_trip, recording the trip reference. It reports false when the
	// ambulance was no longer available at write time (lost race).
	AssignIfAvailable(ctx context.Context, id primitive.ObjectID, trip models.TripRef) (bool, error)

	// Release sets the ambulance back to available and clears the current
	// assignment. Unknown ids return models.ErrNotFound.
	Release(ctx context.Context, id primitive.ObjectID) error

	// GetByTripRef is the reverse lookup on current_assignment, matching
	// either the booking or the SOS id.
	GetByTripRef(ctx context.Context, tripID string) (*models.Ambulance, error)
}
