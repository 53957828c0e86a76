// Package flow drives a respondent through a screener one question at a
// time. It holds no I/O; callers fetch the screener, submit the answers and
// feed the outcomes back in.
package flow

import (
	"errors"
	"fmt"

	"screener/internal/model"
)

// State is a step of the screener flow
type State int

const (
	StateLoading State = iota
	StatePreview
	StateInProgress
	StateSubmitting
	StateResults
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePreview:
		return "preview"
	case StateInProgress:
		return "in_progress"
	case StateSubmitting:
		return "submitting"
	case StateResults:
		return "results"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrAlreadySubmitted = errors.New("answers were already handed off for scoring")
	ErrInvalidOption    = errors.New("value is not one of the section's answer options")
)

// TransitionError reports an event that is not valid in the current state
type TransitionError struct {
	Event string
	From  State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Event, e.From)
}

// Progress is the respondent's position in the screener
type Progress struct {
	Current int // 1-based question number across all sections
	Total   int
}

func (p Progress) String() string {
	return fmt.Sprintf("Question %d of %d", p.Current, p.Total)
}

// Percent returns how far along the current question is, 0..100
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 100
	}
	return p.Current * 100 / p.Total
}

// Flow is the screener state machine. It is not safe for concurrent use.
type Flow struct {
	state    State
	screener *model.Screener
	err      error

	section  int
	question int
	answered int

	answers   []model.Answer
	handedOff bool
	results   []string
}

// New returns a flow in the loading state
func New() *Flow {
	return &Flow{state: StateLoading}
}

func (f *Flow) State() State              { return f.state }
func (f *Flow) Screener() *model.Screener { return f.screener }
func (f *Flow) Err() error                { return f.err }

// Results returns the recommended assessments once in the results state
func (f *Flow) Results() []string {
	out := make([]string, len(f.results))
	copy(out, f.results)
	return out
}

// Answers returns the answers collected so far, in answer order
func (f *Flow) Answers() []model.Answer {
	out := make([]model.Answer, len(f.answers))
	copy(out, f.answers)
	return out
}

// Loaded moves Loading to Preview
func (f *Flow) Loaded(screener *model.Screener) error {
	if f.state != StateLoading {
		return &TransitionError{Event: "load", From: f.state}
	}
	if screener == nil {
		return f.Fail(errors.New("no screener available"))
	}
	f.screener = screener
	f.state = StatePreview
	return nil
}

// Fail moves Loading or Submitting to Error
func (f *Flow) Fail(err error) error {
	if f.state != StateLoading && f.state != StateSubmitting {
		return &TransitionError{Event: "fail", From: f.state}
	}
	f.err = err
	f.state = StateError
	return nil
}

// Retry moves Error back to Loading, discarding everything
func (f *Flow) Retry() error {
	if f.state != StateError {
		return &TransitionError{Event: "retry", From: f.state}
	}
	*f = Flow{state: StateLoading}
	return nil
}

// Start moves Preview to the first question. A screener with no questions
// goes straight to Submitting with an empty answer set.
func (f *Flow) Start() error {
	if f.state != StatePreview {
		return &TransitionError{Event: "start", From: f.state}
	}
	f.section, f.question, f.answered = 0, 0, 0
	f.answers = nil
	f.handedOff = false

	if f.screener.QuestionCount() == 0 {
		f.state = StateSubmitting
		return nil
	}
	f.state = StateInProgress
	f.skipEmptySections()
	return nil
}

// Current returns the section and question being asked
func (f *Flow) Current() (*model.Section, *model.Question, error) {
	if f.state != StateInProgress {
		return nil, nil, &TransitionError{Event: "ask", From: f.state}
	}
	sec := &f.screener.Content.Sections[f.section]
	return sec, &sec.Questions[f.question], nil
}

// Progress reports the current question number out of the total
func (f *Flow) Progress() Progress {
	total := 0
	if f.screener != nil {
		total = f.screener.QuestionCount()
	}
	current := f.answered + 1
	if current > total {
		current = total
	}
	return Progress{Current: current, Total: total}
}

// Answer records a value for the current question and advances. Answering
// the last question of the last section moves to Submitting.
func (f *Flow) Answer(value int) error {
	sec, q, err := f.Current()
	if err != nil {
		return &TransitionError{Event: "answer", From: f.state}
	}
	if !hasOption(sec, value) {
		return fmt.Errorf("%w: %d", ErrInvalidOption, value)
	}

	f.answers = append(f.answers, model.Answer{QuestionID: q.QuestionID, Value: value})
	f.answered++

	f.question++
	if f.question >= len(sec.Questions) {
		f.section++
		f.question = 0
		f.skipEmptySections()
	}
	if f.section >= len(f.screener.Content.Sections) {
		f.state = StateSubmitting
	}
	return nil
}

// Submission hands out the complete answer set. It succeeds once per pass
// through the screener.
func (f *Flow) Submission() ([]model.Answer, error) {
	if f.state != StateSubmitting {
		return nil, &TransitionError{Event: "submit", From: f.state}
	}
	if f.handedOff {
		return nil, ErrAlreadySubmitted
	}
	f.handedOff = true
	answers := f.Answers()
	return answers, nil
}

// Completed moves Submitting to Results
func (f *Flow) Completed(results []string) error {
	if f.state != StateSubmitting {
		return &TransitionError{Event: "complete", From: f.state}
	}
	f.results = append([]string{}, results...)
	f.state = StateResults
	return nil
}

// Reset moves Results back to Preview with no answers
func (f *Flow) Reset() error {
	if f.state != StateResults {
		return &TransitionError{Event: "reset", From: f.state}
	}
	f.section, f.question, f.answered = 0, 0, 0
	f.answers = nil
	f.results = nil
	f.handedOff = false
	f.state = StatePreview
	return nil
}

func (f *Flow) skipEmptySections() {
	sections := f.screener.Content.Sections
	for f.section < len(sections) && len(sections[f.section].Questions) == 0 {
		f.section++
	}
}

func hasOption(sec *model.Section, value int) bool {
	if len(sec.Answers) == 0 {
		return true
	}
	for _, opt := range sec.Answers {
		if opt.Value == value {
			return true
		}
	}
	return false
}
