package repository

import (
	"context"

	"screener/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type referenceRepo struct {
	mappings *mongo.Collection
	criteria *mongo.Collection
}

// NewReferenceRepo creates a MongoDB repository over the
// domain_mappings and assessment_criteria collections
func NewReferenceRepo(db *mongo.Database) ReferenceRepo {
	return &referenceRepo{
		mappings: db.Collection("domain_mappings"),
		criteria: db.Collection("assessment_criteria"),
	}
}

func (r *referenceRepo) ListDomainMappings(ctx context.Context) ([]model.DomainMapping, error) {
	cursor, err := r.mappings.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	mappings := []model.DomainMapping{}
	if err := cursor.All(ctx, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *referenceRepo) ListAssessmentCriteria(ctx context.Context) ([]model.AssessmentCriteria, error) {
	cursor, err := r.criteria.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	criteria := []model.AssessmentCriteria{}
	if err := cursor.All(ctx, &criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}

// UpsertDomainMappings replaces rows keyed by question_id
func (r *referenceRepo) UpsertDomainMappings(ctx context.Context, mappings []model.DomainMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(mappings))
	for _, m := range mappings {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"question_id": m.QuestionID}).
			SetReplacement(m).
			SetUpsert(true))
	}
	_, err := r.mappings.BulkWrite(ctx, writes)
	return err
}

// UpsertAssessmentCriteria replaces rows keyed by domain
func (r *referenceRepo) UpsertAssessmentCriteria(ctx context.Context, criteria []model.AssessmentCriteria) error {
	if len(criteria) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(criteria))
	for _, c := range criteria {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"domain": c.Domain}).
			SetReplacement(c).
			SetUpsert(true))
	}
	_, err := r.criteria.BulkWrite(ctx, writes)
	return err
}
