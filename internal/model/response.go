package model

import "time"

// ResponseResults wraps the recommended assessments inside a stored response
type ResponseResults struct {
	Results []string `json:"results" bson:"results"`
}

// Response is the audit record of one scored submission
type Response struct {
	ID        string          `json:"id" bson:"_id"`
	Answers   []Answer        `json:"answers" bson:"answers"`
	Results   ResponseResults `json:"results" bson:"results"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}
