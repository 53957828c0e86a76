package model

// Answer is one submitted (question, value) pair
type Answer struct {
	QuestionID string `json:"question_id" bson:"question_id"`
	Value      int    `json:"value" bson:"value"`
}

// ScoreRequest is the body of POST /assessments/score
type ScoreRequest struct {
	Answers []Answer `json:"answers"`
}

// ScoreResult is the response of POST /assessments/score
type ScoreResult struct {
	Results []string `json:"results"`
}
