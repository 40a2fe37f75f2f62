package providerRepo

import (
	"context"
	"fmt"
	"time"

	"islandeats/config"
	"islandeats/database"
	"islandeats/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo() ProviderRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("providers")
	return &MongoProviderRepo{coll: coll}
}

func (r *MongoProviderRepo) GetByID(id string) (*models.ProviderRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var rec models.ProviderRecord
	filter := bson.M{"_id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", id, err)
	}
	return &rec, nil
}

func (r *MongoProviderRepo) GetAll() ([]models.ProviderRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve providers: %w", err)
	}
	defer cursor.Close(ctx)
	var records []models.ProviderRecord
	for cursor.Next(ctx) {
		var rec models.ProviderRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode provider: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
