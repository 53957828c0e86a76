// Package seed loads reference and screener data from YAML into a store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"screener/internal/logger"
	"screener/internal/model"
	"screener/internal/repository"

	"github.com/cenkalti/backoff/v5"
	"gopkg.in/yaml.v3"
)

// Data is the seed file layout
type Data struct {
	Screener           *model.Screener            `yaml:"screener"`
	DomainMappings     []model.DomainMapping      `yaml:"domain_mappings"`
	AssessmentCriteria []model.AssessmentCriteria `yaml:"assessment_criteria"`
}

// LoadFile reads and validates a seed file
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates seed YAML
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks ids are present and unique. Duplicate keys would make the
// upsert order decide the stored row.
func (d *Data) Validate() error {
	var errs []error

	if d.Screener != nil && d.Screener.ID == "" {
		errs = append(errs, errors.New("screener.id is required"))
	}

	questions := map[string]bool{}
	for i, m := range d.DomainMappings {
		if m.QuestionID == "" || m.Domain == "" {
			errs = append(errs, fmt.Errorf("domain_mappings[%d]: question_id and domain are required", i))
			continue
		}
		if questions[m.QuestionID] {
			errs = append(errs, fmt.Errorf("domain_mappings[%d]: duplicate question_id %q", i, m.QuestionID))
		}
		questions[m.QuestionID] = true
	}

	domains := map[string]bool{}
	for i, c := range d.AssessmentCriteria {
		if c.Domain == "" || c.Assessment == "" {
			errs = append(errs, fmt.Errorf("assessment_criteria[%d]: domain and assessment are required", i))
			continue
		}
		if domains[c.Domain] {
			errs = append(errs, fmt.Errorf("assessment_criteria[%d]: duplicate domain %q", i, c.Domain))
		}
		domains[c.Domain] = true
	}

	return errors.Join(errs...)
}

// Invalidator drops cached copies after seeding
type Invalidator func(ctx context.Context) error

// Seeder upserts seed data with retries
type Seeder struct {
	store        *repository.Store
	log          logger.Logger
	maxTries     uint
	initialDelay time.Duration
}

// NewSeeder retries each upsert maxTries times, doubling the delay from initialDelay
func NewSeeder(store *repository.Store, log logger.Logger, maxTries uint, initialDelay time.Duration) *Seeder {
	return &Seeder{
		store:        store,
		log:          log,
		maxTries:     maxTries,
		initialDelay: initialDelay,
	}
}

// Apply writes the screener, domain mappings and criteria, then runs the
// invalidators. Invalidation failures are logged only.
func (s *Seeder) Apply(ctx context.Context, data *Data, invalidators ...Invalidator) error {
	if data.Screener != nil {
		if err := s.retry(ctx, "screener", func() error {
			return s.store.Screeners.Upsert(ctx, data.Screener)
		}); err != nil {
			return err
		}
	}

	if len(data.DomainMappings) > 0 {
		if err := s.retry(ctx, "domain_mappings", func() error {
			return s.store.Reference.UpsertDomainMappings(ctx, data.DomainMappings)
		}); err != nil {
			return err
		}
	}

	if len(data.AssessmentCriteria) > 0 {
		if err := s.retry(ctx, "assessment_criteria", func() error {
			return s.store.Reference.UpsertAssessmentCriteria(ctx, data.AssessmentCriteria)
		}); err != nil {
			return err
		}
	}

	for _, invalidate := range invalidators {
		if err := invalidate(ctx); err != nil {
			s.log.WithError(err).Warn("Cache invalidation failed", nil)
		}
	}

	s.log.Info("Seed applied", map[string]interface{}{
		"screener":            data.Screener != nil,
		"domain_mappings":     len(data.DomainMappings),
		"assessment_criteria": len(data.AssessmentCriteria),
	})
	return nil
}

func (s *Seeder) retry(ctx context.Context, what string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if err := op(); err != nil {
			s.log.WithError(err).Warn("Seed upsert failed", map[string]interface{}{
				"table":   what,
				"attempt": attempt,
			})
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(s.maxTries))
	if err != nil {
		return fmt.Errorf("seed %s after %d attempts: %w", what, attempt, err)
	}
	return nil
}
