package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"screener/internal/model"

	"github.com/google/uuid"
)

// Expected tables (provisioned outside this service):
//
//	screeners(id text primary key, data jsonb not null)
//	domain_mappings(question_id text primary key, domain text not null)
//	assessment_criteria(domain text primary key, threshold integer not null, assessment text not null)
//	responses(id text primary key, answers jsonb not null, results jsonb not null, created_at timestamptz not null)

const (
	queryScreenerByID = `SELECT data FROM screeners WHERE id = $1`
	upsertScreener    = `INSERT INTO screeners (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`

	queryDomainMappings = `SELECT question_id, domain FROM domain_mappings`
	upsertDomainMapping = `INSERT INTO domain_mappings (question_id, domain) VALUES ($1, $2)
		ON CONFLICT (question_id) DO UPDATE SET domain = EXCLUDED.domain`

	queryAssessmentCriteria  = `SELECT domain, threshold, assessment FROM assessment_criteria`
	upsertAssessmentCriteria = `INSERT INTO assessment_criteria (domain, threshold, assessment) VALUES ($1, $2, $3)
		ON CONFLICT (domain) DO UPDATE SET threshold = EXCLUDED.threshold, assessment = EXCLUDED.assessment`

	insertResponse = `INSERT INTO responses (id, answers, results, created_at) VALUES ($1, $2, $3, $4)`
)

type pgScreenerRepo struct {
	db *sql.DB
}

// NewPostgresScreenerRepo creates a Postgres screener repository
func NewPostgresScreenerRepo(db *sql.DB) ScreenerRepo {
	return &pgScreenerRepo{db: db}
}

func (r *pgScreenerRepo) GetByID(ctx context.Context, id string) (*model.Screener, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, queryScreenerByID, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var screener model.Screener
	if err := json.Unmarshal(data, &screener); err != nil {
		return nil, fmt.Errorf("decode screener %s: %w", id, err)
	}
	if screener.ID == "" {
		screener.ID = id
	}
	return &screener, nil
}

func (r *pgScreenerRepo) Upsert(ctx context.Context, screener *model.Screener) error {
	data, err := json.Marshal(screener)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertScreener, screener.ID, data)
	return err
}

type pgReferenceRepo struct {
	db *sql.DB
}

// NewPostgresReferenceRepo creates a Postgres repository over the
// domain_mappings and assessment_criteria tables
func NewPostgresReferenceRepo(db *sql.DB) ReferenceRepo {
	return &pgReferenceRepo{db: db}
}

func (r *pgReferenceRepo) ListDomainMappings(ctx context.Context) ([]model.DomainMapping, error) {
	rows, err := r.db.QueryContext(ctx, queryDomainMappings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mappings := []model.DomainMapping{}
	for rows.Next() {
		var m model.DomainMapping
		if err := rows.Scan(&m.QuestionID, &m.Domain); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func (r *pgReferenceRepo) ListAssessmentCriteria(ctx context.Context) ([]model.AssessmentCriteria, error) {
	rows, err := r.db.QueryContext(ctx, queryAssessmentCriteria)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	criteria := []model.AssessmentCriteria{}
	for rows.Next() {
		var c model.AssessmentCriteria
		if err := rows.Scan(&c.Domain, &c.Threshold, &c.Assessment); err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, rows.Err()
}

func (r *pgReferenceRepo) UpsertDomainMappings(ctx context.Context, mappings []model.DomainMapping) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, m := range mappings {
			if _, err := tx.ExecContext(ctx, upsertDomainMapping, m.QuestionID, m.Domain); err != nil {
				return fmt.Errorf("upsert mapping %s: %w", m.QuestionID, err)
			}
		}
		return nil
	})
}

func (r *pgReferenceRepo) UpsertAssessmentCriteria(ctx context.Context, criteria []model.AssessmentCriteria) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range criteria {
			if _, err := tx.ExecContext(ctx, upsertAssessmentCriteria, c.Domain, c.Threshold, c.Assessment); err != nil {
				return fmt.Errorf("upsert criteria %s: %w", c.Domain, err)
			}
		}
		return nil
	})
}

func (r *pgReferenceRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type pgResponseRepo struct {
	db *sql.DB
}

// NewPostgresResponseRepo creates a Postgres repository for audit records
func NewPostgresResponseRepo(db *sql.DB) ResponseRepo {
	return &pgResponseRepo{db: db}
}

func (r *pgResponseRepo) Create(ctx context.Context, response *model.Response) error {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now().UTC()
	}

	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return err
	}
	results, err := json.Marshal(response.Results)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, insertResponse, response.ID, answers, results, response.CreatedAt)
	return err
}
