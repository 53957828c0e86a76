package repository

import (
	"context"
	"time"

	"screener/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a MongoDB repository for audit records
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) error {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, response)
	return err
}
