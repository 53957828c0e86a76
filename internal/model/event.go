package model

import "time"

// SubmissionEvent is the live-feed view of a scored submission. It never
// carries the individual answers.
type SubmissionEvent struct {
	ID       string    `json:"id"`
	Results  []string  `json:"results"`
	Answered int       `json:"answered"`
	ScoredAt time.Time `json:"scoredAt"`
}
