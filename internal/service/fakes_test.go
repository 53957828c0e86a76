package service

import (
	"context"
	"errors"
	"sync"

	"screener/internal/model"
)

var errStoreDown = errors.New("store down")

type fakeReferenceRepo struct {
	mu       sync.Mutex
	mappings []model.DomainMapping
	criteria []model.AssessmentCriteria
	err      error
	calls    int
}

func (f *fakeReferenceRepo) ListDomainMappings(ctx context.Context) ([]model.DomainMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.mappings, nil
}

func (f *fakeReferenceRepo) ListAssessmentCriteria(ctx context.Context) ([]model.AssessmentCriteria, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.criteria, nil
}

func (f *fakeReferenceRepo) UpsertDomainMappings(ctx context.Context, mappings []model.DomainMapping) error {
	return nil
}

func (f *fakeReferenceRepo) UpsertAssessmentCriteria(ctx context.Context, criteria []model.AssessmentCriteria) error {
	return nil
}

func (f *fakeReferenceRepo) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeReferenceRepo) loadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeScreenerRepo struct {
	screeners map[string]*model.Screener
	err       error
	gets      int
}

func (f *fakeScreenerRepo) GetByID(ctx context.Context, id string) (*model.Screener, error) {
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	return f.screeners[id], nil
}

func (f *fakeScreenerRepo) Upsert(ctx context.Context, screener *model.Screener) error {
	if f.screeners == nil {
		f.screeners = map[string]*model.Screener{}
	}
	f.screeners[screener.ID] = screener
	return nil
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	responses []*model.Response
	err       error
	block     chan struct{}
	panicOn   string
}

func (f *fakeResponseRepo) Create(ctx context.Context, response *model.Response) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.panicOn != "" && response.ID == f.panicOn {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.responses = append(f.responses, response)
	return nil
}

func (f *fakeResponseRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.responses)
}

type fakeRecorder struct {
	mu        sync.Mutex
	responses []*model.Response
}

func (f *fakeRecorder) Record(response *model.Response) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, response)
	return true
}

type broadcastMsg struct {
	msgType string
	payload interface{}
}

type fakeBroadcaster struct {
	messages []broadcastMsg
}

func (f *fakeBroadcaster) BroadcastToAdmins(msgType string, payload interface{}) {
	f.messages = append(f.messages, broadcastMsg{msgType: msgType, payload: payload})
}

func testMappings() []model.DomainMapping {
	return []model.DomainMapping{
		{QuestionID: "question_a", Domain: "depression"},
		{QuestionID: "question_b", Domain: "depression"},
		{QuestionID: "question_c", Domain: "mania"},
		{QuestionID: "question_d", Domain: "mania"},
		{QuestionID: "question_e", Domain: "anxiety"},
		{QuestionID: "question_f", Domain: "anxiety"},
		{QuestionID: "question_g", Domain: "anxiety"},
		{QuestionID: "question_h", Domain: "substance_use"},
	}
}

func testCriteria() []model.AssessmentCriteria {
	return []model.AssessmentCriteria{
		{Domain: "depression", Threshold: 2, Assessment: "PHQ-9"},
		{Domain: "mania", Threshold: 2, Assessment: "ASRM"},
		{Domain: "anxiety", Threshold: 2, Assessment: "PHQ-9"},
		{Domain: "substance_use", Threshold: 1, Assessment: "ASSIST"},
	}
}
