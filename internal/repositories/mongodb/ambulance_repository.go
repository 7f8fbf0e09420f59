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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ambulanceRepository struct {
	collection *mongo.Collection
}

func NewAmbulanceRepository(db *mongo.Database) interfaces.AmbulanceRepository {
	return &ambulanceRepository{
		collection: db.Collection("ambulances"),
	}
}

func (r *ambulanceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ambulance, error) {
	var ambulance models.Ambulance
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ambulance)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ambulance: %w", err)
	}

	return &ambulance, nil
}

func (r *ambulanceRepository) GetAvailable(ctx context.Context) ([]*models.Ambulance, error) {
	filter := bson.M{"status": models.AmbulanceStatusAvailable}

	// Stable pool order: oldest registrations first, matching FIFO fallback
	// selection when the caller has no location.
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find available ambulances: %w", err)
	}
	defer cursor.Close(ctx)

	var ambulances []*models.Ambulance
	for cursor.Next(ctx) {
		var ambulance models.Ambulance
		if err := cursor.Decode(&ambulance); err != nil {
			return nil, fmt.Errorf("failed to decode ambulance: %w", err)
		}
		ambulances = append(ambulances, &ambulance)
	}

	return ambulances, nil
}

func (r *ambulanceRepository) AssignIfAvailable(ctx context.Context, id primitive.ObjectID, trip models.TripRef) (bool, error) {
	// The status filter makes the reservation a compare-and-set: a concurrent
	// dispatch that grabbed this unit first leaves no document to match.
	filter := bson.M{
		"_id":    id,
		"status": models.AmbulanceStatusAvailable,
	}
	update := bson.M{
		"$set": bson.M{
			"status":             models.AmbulanceStatusOnTrip,
			"current_assignment": trip,
			"updated_at":         time.Now(),
		},
	}

	result := r.collection.FindOneAndUpdate(ctx, filter, update)
	if err := result.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("failed to assign ambulance: %w", err)
	}

	return true, nil
}

func (r *ambulanceRepository) Release(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"status":             models.AmbulanceStatusAvailable,
			"current_assignment": nil,
			"updated_at":         time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to release ambulance: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *ambulanceRepository) GetByTripRef(ctx context.Context, tripID string) (*models.Ambulance, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"current_assignment.sos_id": tripID},
			{"current_assignment.booking_id": tripID},
		},
	}

	var ambulance models.Ambulance
	err := r.collection.FindOne(ctx, filter).Decode(&ambulance)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ambulance by trip: %w", err)
	}

	return &ambulance, nil
}
