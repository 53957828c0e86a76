package model

// Screener is the full questionnaire definition served to clients
type Screener struct {
	ID       string          `json:"id" bson:"_id" yaml:"id"`
	Name     string          `json:"name" bson:"name" yaml:"name"`
	Disorder string          `json:"disorder" bson:"disorder" yaml:"disorder"`
	Content  ScreenerContent `json:"content" bson:"content" yaml:"content"`
	FullName string          `json:"full_name" bson:"full_name" yaml:"full_name"`
}

// ScreenerContent holds the ordered sections and the display title
type ScreenerContent struct {
	Sections    []Section `json:"sections" bson:"sections" yaml:"sections"`
	DisplayName string    `json:"display_name" bson:"display_name" yaml:"display_name"`
}

// Section groups questions that share one set of answer options
type Section struct {
	Type      string         `json:"type" bson:"type" yaml:"type"`
	Title     string         `json:"title" bson:"title" yaml:"title"`
	Answers   []AnswerOption `json:"answers" bson:"answers" yaml:"answers"`
	Questions []Question     `json:"questions" bson:"questions" yaml:"questions"`
}

// AnswerOption is a selectable choice; Value is what gets scored
type AnswerOption struct {
	Title string `json:"title" bson:"title" yaml:"title"`
	Value int    `json:"value" bson:"value" yaml:"value"`
}

// Question is a single prompt inside a section
type Question struct {
	QuestionID string `json:"question_id" bson:"question_id" yaml:"question_id"`
	Title      string `json:"title" bson:"title" yaml:"title"`
}

// QuestionCount returns the number of questions across all sections
func (s *Screener) QuestionCount() int {
	n := 0
	for _, sec := range s.Content.Sections {
		n += len(sec.Questions)
	}
	return n
}
