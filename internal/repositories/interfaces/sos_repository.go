package interfaces

import (
	"context"

	"ambudispatch/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SOSRepository interface {
	Create(ctx context.Context, event *models.SOSEvent) error

	// GetByID returns models.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SOSEvent, error)

	// Update applies a partial $set-style update and stamps updated_at.
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
}
