// Package validation checks submissions before they reach the scorer.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"screener/internal/apperrors"
	"screener/internal/model"

	"github.com/xeipuuv/gojsonschema"
)

// Answer values outside this range are rejected before scoring.
const (
	MinAnswerValue = -1000000
	MaxAnswerValue = 1000000
)

var scoreRequestSchema = fmt.Sprintf(`{
	"type": "object",
	"required": ["answers"],
	"properties": {
		"answers": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["question_id", "value"],
				"properties": {
					"question_id": {"type": "string", "minLength": 1},
					"value": {"type": "integer", "minimum": %d, "maximum": %d}
				}
			}
		}
	}
}`, MinAnswerValue, MaxAnswerValue)

var scoreRequestLoader = gojsonschema.NewStringLoader(scoreRequestSchema)

// DecodeScoreRequest validates raw JSON against the score request schema and
// decodes it. Every failure is returned as a VALIDATION_FAILED AppError.
func DecodeScoreRequest(body []byte) (*model.ScoreRequest, error) {
	if len(body) == 0 {
		return nil, apperrors.NewValidationError("request body is empty")
	}

	result, err := gojsonschema.Validate(scoreRequestLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("malformed JSON: %v", err))
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		sort.Strings(details)
		return nil, apperrors.NewValidationError(details...)
	}

	req, err := decodeAnswers(body)
	if err != nil {
		return nil, err
	}

	if err := CheckUniqueQuestions(req.Answers); err != nil {
		return nil, err
	}
	return req, nil
}

type rawScoreRequest struct {
	Answers []struct {
		QuestionID string      `json:"question_id"`
		Value      json.Number `json:"value"`
	} `json:"answers"`
}

// decodeAnswers reads values as numbers so integral forms like 3.0 or 1e2
// are accepted the same way the schema accepts them.
func decodeAnswers(body []byte) (*model.ScoreRequest, error) {
	var raw rawScoreRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.NewValidationError("malformed request body")
	}

	req := &model.ScoreRequest{Answers: make([]model.Answer, 0, len(raw.Answers))}
	var details []string
	for i, a := range raw.Answers {
		v, ok := integerValue(a.Value)
		if !ok {
			details = append(details, fmt.Sprintf("answers.%d.value: must be an integer", i))
			continue
		}
		req.Answers = append(req.Answers, model.Answer{QuestionID: a.QuestionID, Value: v})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError(details...)
	}
	return req, nil
}

func integerValue(n json.Number) (int, bool) {
	if i, err := n.Int64(); err == nil {
		if i < MinAnswerValue || i > MaxAnswerValue {
			return 0, false
		}
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < MinAnswerValue || f > MaxAnswerValue {
		return 0, false
	}
	return int(f), true
}

// CheckUniqueQuestions rejects a submission that answers a question twice.
func CheckUniqueQuestions(answers []model.Answer) error {
	seen := make(map[string]bool, len(answers))
	var details []string
	for i, a := range answers {
		if seen[a.QuestionID] {
			details = append(details, fmt.Sprintf("answers.%d.question_id: duplicate question %q", i, a.QuestionID))
			continue
		}
		seen[a.QuestionID] = true
	}
	if len(details) > 0 {
		return apperrors.NewValidationError(details...)
	}
	return nil
}
