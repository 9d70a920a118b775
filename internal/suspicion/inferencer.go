// Package suspicion infers named candidate conditions from answer patterns.
//
// Inference is independent of the numeric score: rules read the answers
// directly and the two outputs meet only in the assessment result.
package suspicion

import (
	"sort"

	"pawcheck/internal/domain"
)

// Inferencer evaluates a fixed rule list.
type Inferencer struct {
	rules []Rule
}

// New returns an Inferencer over rules. A nil list uses DefaultRules.
func New(rules []Rule) *Inferencer {
	if rules == nil {
		rules = DefaultRules
	}
	return &Inferencer{rules: rules}
}

// Infer evaluates every rule against answers. Each display category is
// present in the output; within a category names are unique, ordered by
// confidence descending and capped at domain.MaxSuspectsPerCategory.
func (in *Inferencer) Infer(answers domain.AnswerMap) map[domain.Category][]domain.Suspicion {
	fired := make(map[domain.Category][]domain.Suspicion, len(domain.DisplayCategories))
	for _, r := range in.rules {
		if r.When == nil || !r.When(answers) {
			continue
		}
		fired[r.Category] = append(fired[r.Category], r.Suspicion)
	}

	out := make(map[domain.Category][]domain.Suspicion, len(domain.DisplayCategories))
	for _, c := range domain.DisplayCategories {
		out[c] = rank(fired[c])
	}
	return out
}

// Infer runs the default rules.
func Infer(answers domain.AnswerMap) map[domain.Category][]domain.Suspicion {
	return defaultInferencer.Infer(answers)
}

var defaultInferencer = New(nil)

func rank(list []domain.Suspicion) []domain.Suspicion {
	byName := make(map[string]int, len(list))
	deduped := make([]domain.Suspicion, 0, len(list))
	for _, s := range list {
		if i, ok := byName[s.Name]; ok {
			if s.Confidence > deduped[i].Confidence {
				deduped[i] = s
			}
			continue
		}
		byName[s.Name] = len(deduped)
		deduped = append(deduped, s)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Confidence > deduped[j].Confidence
	})
	if len(deduped) > domain.MaxSuspectsPerCategory {
		deduped = deduped[:domain.MaxSuspectsPerCategory]
	}
	return deduped
}
