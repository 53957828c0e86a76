package model

// DomainMapping assigns a question to the symptom domain it contributes to
type DomainMapping struct {
	QuestionID string `json:"question_id" bson:"question_id" yaml:"question_id"`
	Domain     string `json:"domain" bson:"domain" yaml:"domain"`
}

// AssessmentCriteria recommends Assessment once a domain reaches Threshold
type AssessmentCriteria struct {
	Domain     string `json:"domain" bson:"domain" yaml:"domain"`
	Threshold  int    `json:"threshold" bson:"threshold" yaml:"threshold"`
	Assessment string `json:"assessment" bson:"assessment" yaml:"assessment"`
}
