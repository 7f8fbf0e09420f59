package mongodb

import (
	"context"
	"fmt"

	"ambudispatch/internal/models"
	"ambudispatch/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// userDirectory reads the users collection maintained by the identity
// service. This core never writes to it.
type userDirectory struct {
	collection *mongo.Collection
}

func NewUserDirectory(db *mongo.Database) interfaces.UserDirectory {
	return &userDirectory{
		collection: db.Collection("users"),
	}
}

func (r *userDirectory) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var profile models.UserProfile
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return &profile, nil
}
