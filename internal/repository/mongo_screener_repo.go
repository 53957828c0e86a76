package repository

import (
	"context"

	"screener/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type screenerRepo struct {
	collection *mongo.Collection
}

// NewScreenerRepo creates a MongoDB screener repository
func NewScreenerRepo(db *mongo.Database) ScreenerRepo {
	return &screenerRepo{
		collection: db.Collection("screeners"),
	}
}

func (r *screenerRepo) GetByID(ctx context.Context, id string) (*model.Screener, error) {
	var screener model.Screener
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&screener)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &screener, nil
}

func (r *screenerRepo) Upsert(ctx context.Context, screener *model.Screener) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": screener.ID}, screener, opts)
	return err
}
