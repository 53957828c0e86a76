// Package scoring turns a screener submission into recommended follow-up
// assessments. It performs no I/O; callers load the reference tables.
package scoring

import (
	"math"

	"screener/internal/model"
)

// Reference is an indexed, read-only view of the domain mapping and
// assessment criteria tables. It is safe for concurrent use once built.
type Reference struct {
	domainOf map[string]string
	criteria map[string]model.AssessmentCriteria
	// domains in order of first appearance in the mapping table
	domains []string

	mappingCount  int
	criteriaCount int
}

// NewReference indexes the tables. When a question or domain appears more
// than once, the first row wins.
func NewReference(mappings []model.DomainMapping, criteria []model.AssessmentCriteria) *Reference {
	r := &Reference{
		domainOf:      make(map[string]string, len(mappings)),
		criteria:      make(map[string]model.AssessmentCriteria, len(criteria)),
		mappingCount:  len(mappings),
		criteriaCount: len(criteria),
	}

	seen := make(map[string]bool)
	for _, m := range mappings {
		if _, ok := r.domainOf[m.QuestionID]; !ok {
			r.domainOf[m.QuestionID] = m.Domain
		}
		if !seen[m.Domain] {
			seen[m.Domain] = true
			r.domains = append(r.domains, m.Domain)
		}
	}

	for _, c := range criteria {
		if _, ok := r.criteria[c.Domain]; !ok {
			r.criteria[c.Domain] = c
		}
	}

	return r
}

// DomainScores seeds every mapped domain with 0 and adds each answer's value
// to its question's domain. Answers for unmapped questions are skipped.
// Sums saturate at the int range instead of wrapping.
func (r *Reference) DomainScores(answers []model.Answer) map[string]int {
	scores := make(map[string]int, len(r.domains))
	for _, d := range r.domains {
		scores[d] = 0
	}

	for _, a := range answers {
		domain, ok := r.domainOf[a.QuestionID]
		if !ok {
			continue
		}
		scores[domain] = addSaturating(scores[domain], a.Value)
	}

	return scores
}

// Recommend returns the distinct assessments whose domain score reached the
// threshold. Domains without a criteria row never recommend anything.
func (r *Reference) Recommend(scores map[string]int) []string {
	results := []string{}
	added := make(map[string]bool)

	for _, domain := range r.domains {
		score, ok := scores[domain]
		if !ok {
			continue
		}
		c, ok := r.criteria[domain]
		if !ok || score < c.Threshold {
			continue
		}
		if added[c.Assessment] {
			continue
		}
		added[c.Assessment] = true
		results = append(results, c.Assessment)
	}

	return results
}

// Score runs DomainScores followed by Recommend.
func (r *Reference) Score(answers []model.Answer) []string {
	return r.Recommend(r.DomainScores(answers))
}

// Domains lists the mapped domains in first-appearance order.
func (r *Reference) Domains() []string {
	out := make([]string, len(r.domains))
	copy(out, r.domains)
	return out
}

// Counts reports how many mapping and criteria rows were indexed.
func (r *Reference) Counts() (mappings, criteria int) {
	return r.mappingCount, r.criteriaCount
}

// Score is the one-shot form of NewReference(mappings, criteria).Score(answers).
func Score(answers []model.Answer, mappings []model.DomainMapping, criteria []model.AssessmentCriteria) []string {
	return NewReference(mappings, criteria).Score(answers)
}

func addSaturating(a, b int) int {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return math.MaxInt
	case b < 0 && sum > a:
		return math.MinInt
	}
	return sum
}
