package repository

import (
	"context"

	"screener/internal/model"
)

// ScreenerRepo reads and writes screener documents
type ScreenerRepo interface {
	// GetByID returns nil, nil when no screener has the id
	GetByID(ctx context.Context, id string) (*model.Screener, error)
	Upsert(ctx context.Context, screener *model.Screener) error
}

// ReferenceRepo holds the domain mapping and assessment criteria tables
type ReferenceRepo interface {
	ListDomainMappings(ctx context.Context) ([]model.DomainMapping, error)
	ListAssessmentCriteria(ctx context.Context) ([]model.AssessmentCriteria, error)
	UpsertDomainMappings(ctx context.Context, mappings []model.DomainMapping) error
	UpsertAssessmentCriteria(ctx context.Context, criteria []model.AssessmentCriteria) error
}

// ResponseRepo stores audit records of scored submissions
type ResponseRepo interface {
	Create(ctx context.Context, response *model.Response) error
}

// Store bundles the repositories of one backing database
type Store struct {
	Screeners ScreenerRepo
	Reference ReferenceRepo
	Responses ResponseRepo
	Close     func(ctx context.Context) error
}
