package service

import (
	"context"
	"time"

	"screener/internal/apperrors"
	"screener/internal/cache"
	"screener/internal/logger"
	"screener/internal/metrics"
	"screener/internal/model"
	"screener/internal/repository"

	"github.com/google/uuid"
)

// AssessmentService serves the screener and scores submissions
type AssessmentService struct {
	reference     ReferenceProvider
	screenerRepo  repository.ScreenerRepo
	screenerCache cache.ScreenerCache // optional
	recorder      Recorder
	broadcaster   Broadcaster
	log           logger.Logger
	defaultID     string
}

// NewAssessmentService creates a new assessment service; screenerCache may be nil
func NewAssessmentService(
	reference ReferenceProvider,
	screenerRepo repository.ScreenerRepo,
	screenerCache cache.ScreenerCache,
	recorder Recorder,
	defaultScreenerID string,
	log logger.Logger,
) *AssessmentService {
	return &AssessmentService{
		reference:     reference,
		screenerRepo:  screenerRepo,
		screenerCache: screenerCache,
		recorder:      recorder,
		defaultID:     defaultScreenerID,
		log:           log.WithFields(map[string]interface{}{"component": "assessment"}),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetScreener returns the default screener document
func (s *AssessmentService) GetScreener(ctx context.Context) (*model.Screener, error) {
	return s.GetScreenerByID(ctx, s.defaultID)
}

// GetScreenerByID returns a screener, reading through the cache when configured
func (s *AssessmentService) GetScreenerByID(ctx context.Context, id string) (*model.Screener, error) {
	if s.screenerCache != nil {
		cached, err := s.screenerCache.Get(ctx, id)
		if err != nil {
			s.log.WithError(err).Warn("Screener cache read failed", map[string]interface{}{"screener_id": id})
		} else if cached != nil {
			return cached, nil
		}
	}

	screener, err := s.screenerRepo.GetByID(ctx, id)
	if err != nil {
		s.log.WithError(err).Error("Failed to load screener", map[string]interface{}{"screener_id": id})
		return nil, apperrors.NewScreenerUnavailableError(err)
	}
	if screener == nil {
		return nil, apperrors.NewScreenerNotFoundError(id)
	}

	if s.screenerCache != nil {
		if err := s.screenerCache.Set(ctx, screener); err != nil {
			s.log.WithError(err).Warn("Failed to cache screener", map[string]interface{}{"screener_id": id})
		}
	}
	return screener, nil
}

// ScoreAnswers scores an already validated answer set against the current
// reference snapshot. Recording and the live event are best-effort and never
// change the returned result.
func (s *AssessmentService) ScoreAnswers(ctx context.Context, answers []model.Answer) (*model.ScoreResult, error) {
	ref, err := s.reference.Current(ctx)
	if err != nil {
		if appErr, ok := apperrors.As(err); ok {
			metrics.SubmissionsRejected.WithLabelValues(string(appErr.Code)).Inc()
		}
		s.log.WithError(err).Error("Scoring reference unavailable", nil)
		return nil, err
	}

	results := ref.Score(answers)

	metrics.SubmissionsScored.Inc()
	for _, assessment := range results {
		metrics.AssessmentsRecommended.WithLabelValues(assessment).Inc()
	}

	now := time.Now().UTC()
	responseID := uuid.New().String()

	if s.recorder != nil {
		s.recorder.Record(&model.Response{
			ID:        responseID,
			Answers:   answers,
			Results:   model.ResponseResults{Results: results},
			CreatedAt: now,
		})
	}

	publishSubmission(s.broadcaster, model.SubmissionEvent{
		ID:       responseID,
		Results:  results,
		Answered: len(answers),
		ScoredAt: now,
	})

	s.log.Info("Submission scored", map[string]interface{}{
		"response_id": responseID,
		"answered":    len(answers),
		"results":     results,
	})

	return &model.ScoreResult{Results: results}, nil
}
