package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"screener/internal/apperrors"
	"screener/internal/logger"
	"screener/internal/metrics"
	"screener/internal/model"
	"screener/internal/validation"
)

const maxScoreBodyBytes = 1 << 20

// AssessmentService is what the assessment endpoints need from the service layer
type AssessmentService interface {
	GetScreener(ctx context.Context) (*model.Screener, error)
	ScoreAnswers(ctx context.Context, answers []model.Answer) (*model.ScoreResult, error)
}

// AssessmentHandler handles the screener endpoints
type AssessmentHandler struct {
	svc AssessmentService
	log logger.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(svc AssessmentService, log logger.Logger) *AssessmentHandler {
	return &AssessmentHandler{svc: svc, log: log}
}

// GetScreener handles GET /assessments/screener
func (h *AssessmentHandler) GetScreener(w http.ResponseWriter, r *http.Request) {
	screener, err := h.svc.GetScreener(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, screener)
}

// Score handles POST /assessments/score
func (h *AssessmentHandler) Score(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScoreBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, apperrors.NewValidationError("request body too large"))
			return
		}
		h.reject(w, apperrors.NewValidationError("failed to read request body"))
		return
	}

	req, err := validation.DecodeScoreRequest(body)
	if err != nil {
		h.reject(w, err)
		return
	}

	result, err := h.svc.ScoreAnswers(r.Context(), req.Answers)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AssessmentHandler) reject(w http.ResponseWriter, err error) {
	code := string(apperrors.ErrCodeValidationFailed)
	if appErr, ok := apperrors.As(err); ok {
		code = string(appErr.Code)
	}
	metrics.SubmissionsRejected.WithLabelValues(code).Inc()
	h.log.Debug("Submission rejected", map[string]interface{}{"reason": err.Error()})
	writeAppError(w, err)
}
