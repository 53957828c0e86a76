package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"screener/internal/apperrors"
	"screener/internal/cache"
	"screener/internal/logger"
	"screener/internal/metrics"
	"screener/internal/repository"
	"screener/internal/scoring"
)

// ReferenceProvider hands out the current scoring reference
type ReferenceProvider interface {
	Current(ctx context.Context) (*scoring.Reference, error)
}

// ReloadResult reports the row counts of a freshly loaded reference
type ReloadResult struct {
	DomainMappings     int       `json:"domainMappings"`
	AssessmentCriteria int       `json:"assessmentCriteria"`
	Domains            []string  `json:"domains"`
	LoadedAt           time.Time `json:"loadedAt"`
}

// ReferenceService owns the in-memory snapshot of the domain mapping and
// assessment criteria tables. Snapshots are replaced whole, never mutated.
type ReferenceService struct {
	repo  repository.ReferenceRepo
	cache cache.ReferenceCache // optional
	log   logger.Logger

	current  atomic.Pointer[scoring.Reference]
	loadedAt atomic.Int64
	loadMu   sync.Mutex
}

// NewReferenceService creates a reference service; refCache may be nil
func NewReferenceService(repo repository.ReferenceRepo, refCache cache.ReferenceCache, log logger.Logger) *ReferenceService {
	return &ReferenceService{
		repo:  repo,
		cache: refCache,
		log:   log.WithFields(map[string]interface{}{"component": "reference"}),
	}
}

// Loaded reports whether a snapshot is available
func (s *ReferenceService) Loaded() bool {
	return s.current.Load() != nil
}

// Current returns the loaded snapshot, loading it on first use
func (s *ReferenceService) Current(ctx context.Context) (*scoring.Reference, error) {
	if ref := s.current.Load(); ref != nil {
		return ref, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if ref := s.current.Load(); ref != nil {
		return ref, nil
	}

	ref, err := s.load(ctx, true)
	if err != nil {
		return nil, apperrors.NewReferenceDataUnavailableError(err)
	}
	return ref, nil
}

// Load reads the tables (cache first) and swaps in a new snapshot
func (s *ReferenceService) Load(ctx context.Context) (*ReloadResult, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	ref, err := s.load(ctx, true)
	if err != nil {
		return nil, apperrors.NewReferenceDataUnavailableError(err)
	}
	return s.result(ref), nil
}

// Reload drops the cached copy and reads straight from the store
func (s *ReferenceService) Reload(ctx context.Context) (*ReloadResult, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.WithError(err).Warn("Failed to invalidate reference cache", nil)
		}
	}

	ref, err := s.load(ctx, false)
	if err != nil {
		return nil, apperrors.NewReferenceDataUnavailableError(err)
	}
	return s.result(ref), nil
}

// Run refreshes the snapshot every interval until ctx is done. A failed
// refresh keeps the previous snapshot.
func (s *ReferenceService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil {
				s.log.WithError(err).Warn("Periodic reference refresh failed, keeping previous snapshot", nil)
			}
		}
	}
}

func (s *ReferenceService) load(ctx context.Context, useCache bool) (*scoring.Reference, error) {
	if useCache && s.cache != nil {
		snap, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.ReferenceLoads.WithLabelValues("cache", "error").Inc()
			s.log.WithError(err).Warn("Reference cache read failed, falling back to store", nil)
		case snap != nil:
			metrics.ReferenceLoads.WithLabelValues("cache", "ok").Inc()
			return s.swap(scoring.NewReference(snap.Mappings, snap.Criteria), "cache"), nil
		}
	}

	mappings, err := s.repo.ListDomainMappings(ctx)
	if err != nil {
		metrics.ReferenceLoads.WithLabelValues("store", "error").Inc()
		return nil, fmt.Errorf("failed to load domain mappings: %w", err)
	}
	criteria, err := s.repo.ListAssessmentCriteria(ctx)
	if err != nil {
		metrics.ReferenceLoads.WithLabelValues("store", "error").Inc()
		return nil, fmt.Errorf("failed to load assessment criteria: %w", err)
	}
	metrics.ReferenceLoads.WithLabelValues("store", "ok").Inc()

	if s.cache != nil {
		snap := &cache.ReferenceSnapshot{Mappings: mappings, Criteria: criteria}
		if err := s.cache.Set(ctx, snap); err != nil {
			s.log.WithError(err).Warn("Failed to populate reference cache", nil)
		}
	}

	return s.swap(scoring.NewReference(mappings, criteria), "store"), nil
}

func (s *ReferenceService) swap(ref *scoring.Reference, source string) *scoring.Reference {
	s.current.Store(ref)
	s.loadedAt.Store(time.Now().UnixNano())

	m, c := ref.Counts()
	s.log.Info("Reference data loaded", map[string]interface{}{
		"source":              source,
		"domain_mappings":     m,
		"assessment_criteria": c,
	})
	return ref
}

func (s *ReferenceService) result(ref *scoring.Reference) *ReloadResult {
	m, c := ref.Counts()
	return &ReloadResult{
		DomainMappings:     m,
		AssessmentCriteria: c,
		Domains:            ref.Domains(),
		LoadedAt:           time.Unix(0, s.loadedAt.Load()).UTC(),
	}
}
