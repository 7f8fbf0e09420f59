package mongodb

import (
	"context"
	"fmt"
	"time"

	"ambudispatch/internal/models"
	"ambudispatch/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type sosRepository struct {
	collection *mongo.Collection
}

func NewSOSRepository(db *mongo.Database) interfaces.SOSRepository {
	return &sosRepository{
		collection: db.Collection("sos_events"),
	}
}

func (r *sosRepository) Create(ctx context.Context, event *models.SOSEvent) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to create SOS event: %w", err)
	}

	return nil
}

func (r *sosRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SOSEvent, error) {
	var event models.SOSEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get SOS event: %w", err)
	}

	return &event, nil
}

func (r *sosRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update SOS event: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}
