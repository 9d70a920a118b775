// Package scoring turns a complete answer map into normalized per-category
// risk scores, an overall score, a severity level and fired red flags.
//
// Score is a pure function of the bank and the answers.
package scoring

import (
	"pawcheck/internal/domain"
	"pawcheck/internal/util"
)

const (
	maxBaseScore = 2.0

	priorStep     = 0.1
	priorMinRatio = 1.0
	priorMaxRatio = 1.4

	worstWeight = 0.2

	warnThreshold = 80
	midThreshold  = 55
)

// scoreOf maps an answer to 0, 1 or 2. Unknown types and answers that do
// not fit the question type score 0.
func scoreOf(q domain.Question, a domain.Answer) float64 {
	switch q.Type {
	case domain.QuestionTypeBool:
		if v, ok := a.Bool(); ok && v {
			return 2
		}
	case domain.QuestionTypeChoice:
		c, _ := a.Choice()
		switch c {
		case domain.ChoiceOften:
			return 2
		case domain.ChoiceSometimes:
			return 1
		}
	}
	return 0
}

// fires reports whether a red-flag question's answer is affirmative or frequent.
func fires(q domain.Question, a domain.Answer) bool {
	if !q.RedFlag {
		return false
	}
	if v, ok := a.Bool(); ok {
		return v
	}
	if c, ok := a.Choice(); ok {
		return c == domain.ChoiceOften
	}
	return false
}

// CategoryMaxima returns, per tag, the highest weighted score the whole bank
// can produce, independent of visibility.
func CategoryMaxima(bank *domain.QuestionBank) map[domain.Category]float64 {
	maxima := make(map[domain.Category]float64)
	if bank == nil {
		return maxima
	}
	for _, q := range bank.Questions {
		for _, t := range q.Tags {
			maxima[t] += maxBaseScore * q.Weight
		}
	}
	return maxima
}

// PriorRatio is the multiplier applied to raw category scores for an
// accumulated prior-risk score.
func PriorRatio(prior float64) float64 {
	return util.Clamp(1+prior*priorStep, priorMinRatio, priorMaxRatio)
}

// LevelFor maps an overall score and red-flag count to a severity level.
// Red flags dominate the numeric score.
func LevelFor(overall int, redFlags int) domain.Level {
	switch {
	case redFlags > 0:
		return domain.LevelUrgent
	case overall >= warnThreshold:
		return domain.LevelWarn
	case overall >= midThreshold:
		return domain.LevelMid
	default:
		return domain.LevelNormal
	}
}

// Score computes the numeric part of an assessment.
func Score(bank *domain.QuestionBank, answers domain.AnswerMap) domain.ScoreReport {
	maxima := CategoryMaxima(bank)
	raw := make(map[domain.Category]float64)
	evidence := make(map[domain.Category][]string, len(domain.DisplayCategories))
	for _, c := range domain.DisplayCategories {
		evidence[c] = []string{}
	}
	redFlags := []string{}
	var prior float64

	var questions []domain.Question
	if bank != nil {
		questions = bank.Questions
	}

	for _, q := range questions {
		a, ok := answers[q.ID]
		if !ok || a.IsEmpty() {
			continue
		}
		b := scoreOf(q, a) * q.Weight
		for _, t := range q.Tags {
			if t == domain.CategoryPrior {
				prior += b
				continue
			}
			raw[t] += b
			if b > 0 && t.IsDisplay() {
				evidence[t] = append(evidence[t], q.Text)
			}
		}
		if fires(q, a) {
			redFlags = append(redFlags, q.ID)
		}
	}

	ratio := PriorRatio(prior)
	perCategory := make(map[domain.Category]int, len(domain.DisplayCategories))
	scores := make([]float64, 0, len(domain.DisplayCategories))
	for _, c := range domain.DisplayCategories {
		denominator := maxima[c]
		if denominator < 1 {
			denominator = 1
		}
		score := util.RoundInt(util.Clamp(raw[c]*ratio/denominator*100, 0, 100))
		perCategory[c] = score
		scores = append(scores, float64(score))
	}

	overall := util.RoundInt(util.Clamp(util.Mean(scores)+util.MaxOf(scores)*worstWeight, 0, 100))

	return domain.ScoreReport{
		PerCategory:  perCategory,
		OverallScore: overall,
		Level:        LevelFor(overall, len(redFlags)),
		RedFlags:     redFlags,
		Evidence:     evidence,
	}
}
