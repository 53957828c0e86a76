package scoring

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"screener/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestMappings() []model.DomainMapping {
	return []model.DomainMapping{
		{QuestionID: "q1", Domain: "mood"},
		{QuestionID: "q2", Domain: "anxiety"},
	}
}

func createTestCriteria() []model.AssessmentCriteria {
	return []model.AssessmentCriteria{
		{Domain: "mood", Threshold: 5, Assessment: "PHQ-9"},
		{Domain: "anxiety", Threshold: 3, Assessment: "GAD-7"},
	}
}

func answers(pairs ...interface{}) []model.Answer {
	out := []model.Answer{}
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.Answer{QuestionID: pairs[i].(string), Value: pairs[i+1].(int)})
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		answers  []model.Answer
		mappings []model.DomainMapping
		criteria []model.AssessmentCriteria
		expected []string
	}{
		{
			name:     "anxiety over threshold, mood under",
			answers:  answers("q1", 3, "q2", 4),
			mappings: createTestMappings(),
			criteria: createTestCriteria(),
			expected: []string{"GAD-7"},
		},
		{
			name:     "mood exactly at threshold",
			answers:  answers("q1", 5, "q2", 0),
			mappings: createTestMappings(),
			criteria: createTestCriteria(),
			expected: []string{"PHQ-9"},
		},
		{
			name:     "both domains qualify",
			answers:  answers("q1", 9, "q2", 3),
			mappings: createTestMappings(),
			criteria: createTestCriteria(),
			expected: []string{"PHQ-9", "GAD-7"},
		},
		{
			name:     "empty answers with positive thresholds",
			answers:  nil,
			mappings: createTestMappings(),
			criteria: createTestCriteria(),
			expected: []string{},
		},
		{
			name:     "two questions in the same domain accumulate",
			answers:  answers("q1", 2, "q3", 3),
			mappings: append(createTestMappings(), model.DomainMapping{QuestionID: "q3", Domain: "mood"}),
			criteria: createTestCriteria(),
			expected: []string{"PHQ-9"},
		},
		{
			name:     "unmapped question contributes nothing",
			answers:  answers("zz", 100, "q2", 1),
			mappings: createTestMappings(),
			criteria: createTestCriteria(),
			expected: []string{},
		},
		{
			name:     "negative values subtract",
			answers:  answers("q2", 5, "q4", -3),
			mappings: append(createTestMappings(), model.DomainMapping{QuestionID: "q4", Domain: "anxiety"}),
			criteria: createTestCriteria(),
			expected: []string{},
		},
		{
			name:     "domain without criteria never recommends",
			answers:  answers("q5", 50),
			mappings: append(createTestMappings(), model.DomainMapping{QuestionID: "q5", Domain: "sleep"}),
			criteria: createTestCriteria(),
			expected: []string{},
		},
		{
			name:     "zero threshold recommends with no answers",
			answers:  nil,
			mappings: createTestMappings(),
			criteria: []model.AssessmentCriteria{
				{Domain: "mood", Threshold: 0, Assessment: "PHQ-9"},
				{Domain: "anxiety", Threshold: 3, Assessment: "GAD-7"},
			},
			expected: []string{"PHQ-9"},
		},
		{
			name:     "criteria for unmapped domain is ignored",
			answers:  nil,
			mappings: createTestMappings(),
			criteria: append(createTestCriteria(), model.AssessmentCriteria{Domain: "ghost", Threshold: 0, Assessment: "NONE"}),
			expected: []string{},
		},
		{
			name:     "no reference data at all",
			answers:  answers("q1", 10),
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.answers, tt.mappings, tt.criteria)
			require.NotNil(t, got)
			assert.ElementsMatch(t, tt.expected, got)
		})
	}
}

func TestScore_DeduplicatesSharedAssessment(t *testing.T) {
	mappings := []model.DomainMapping{
		{QuestionID: "a", Domain: "depression"},
		{QuestionID: "b", Domain: "anxiety"},
		{QuestionID: "c", Domain: "mania"},
	}
	criteria := []model.AssessmentCriteria{
		{Domain: "depression", Threshold: 2, Assessment: "PHQ-9"},
		{Domain: "anxiety", Threshold: 2, Assessment: "PHQ-9"},
		{Domain: "mania", Threshold: 2, Assessment: "ASRM"},
	}

	got := Score(answers("a", 2, "b", 4, "c", 2), mappings, criteria)

	assert.Equal(t, []string{"PHQ-9", "ASRM"}, got)
}

func TestScore_NeverReturnsDuplicates(t *testing.T) {
	mappings := []model.DomainMapping{}
	criteria := []model.AssessmentCriteria{}
	for i := 0; i < 20; i++ {
		domain := fmt.Sprintf("d%d", i)
		mappings = append(mappings, model.DomainMapping{QuestionID: fmt.Sprintf("q%d", i), Domain: domain})
		criteria = append(criteria, model.AssessmentCriteria{Domain: domain, Threshold: i % 3, Assessment: fmt.Sprintf("A%d", i%4)})
	}

	for v := -2; v <= 3; v++ {
		in := []model.Answer{}
		for i := 0; i < 20; i++ {
			in = append(in, model.Answer{QuestionID: fmt.Sprintf("q%d", i), Value: v})
		}
		got := Score(in, mappings, criteria)

		seen := map[string]bool{}
		for _, a := range got {
			assert.False(t, seen[a], "duplicate assessment %s for value %d", a, v)
			seen[a] = true
		}
	}
}

// ==========================
// Reference Tests
// ==========================

func TestReference_DomainScores(t *testing.T) {
	ref := NewReference(append(createTestMappings(), model.DomainMapping{QuestionID: "q9", Domain: "sleep"}), createTestCriteria())

	scores := ref.DomainScores(answers("q1", 2, "q2", 1, "unknown", 7))

	assert.Equal(t, map[string]int{"mood": 2, "anxiety": 1, "sleep": 0}, scores)
}

func TestReference_DomainScoresSaturate(t *testing.T) {
	mappings := []model.DomainMapping{
		{QuestionID: "q1", Domain: "mood"},
		{QuestionID: "q3", Domain: "mood"},
		{QuestionID: "q2", Domain: "anxiety"},
		{QuestionID: "q4", Domain: "anxiety"},
	}
	ref := NewReference(mappings, createTestCriteria())

	scores := ref.DomainScores(answers("q1", math.MaxInt, "q3", 10, "q2", math.MinInt, "q4", -10))

	assert.Equal(t, math.MaxInt, scores["mood"])
	assert.Equal(t, math.MinInt, scores["anxiety"])
}

func TestScore_LargeValuesStillQualify(t *testing.T) {
	mappings := []model.DomainMapping{
		{QuestionID: "q1", Domain: "mood"},
		{QuestionID: "q3", Domain: "mood"},
	}
	criteria := []model.AssessmentCriteria{{Domain: "mood", Threshold: 5, Assessment: "PHQ-9"}}

	got := Score(answers("q1", math.MaxInt, "q3", 10), mappings, criteria)

	assert.Equal(t, []string{"PHQ-9"}, got)
}

func TestReference_FirstMappingWins(t *testing.T) {
	ref := NewReference([]model.DomainMapping{
		{QuestionID: "q1", Domain: "mood"},
		{QuestionID: "q1", Domain: "anxiety"},
	}, createTestCriteria())

	scores := ref.DomainScores(answers("q1", 4))

	assert.Equal(t, 4, scores["mood"])
	assert.Equal(t, 0, scores["anxiety"])
	assert.Equal(t, []string{"mood", "anxiety"}, ref.Domains())
}

func TestReference_Counts(t *testing.T) {
	ref := NewReference(createTestMappings(), createTestCriteria()[:1])

	m, c := ref.Counts()

	assert.Equal(t, 2, m)
	assert.Equal(t, 1, c)
}

func TestReference_ConcurrentScoring(t *testing.T) {
	ref := NewReference(createTestMappings(), createTestCriteria())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			got := ref.Score(answers("q1", v, "q2", v))
			if v >= 5 {
				assert.ElementsMatch(t, []string{"PHQ-9", "GAD-7"}, got)
			}
		}(i % 10)
	}
	wg.Wait()
}
