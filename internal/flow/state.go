// Package flow sequences the visible questions of one assessment session.
//
// A session is either Active at an index into the currently visible
// questions, or Terminal. The visible set is re-derived from the answers on
// every transition, so a State carries nothing that cannot be recomputed.
package flow

import (
	"fmt"

	"pawcheck/internal/domain"
)

// State is the complete state of one session.
type State struct {
	Answers  domain.AnswerMap
	Index    int
	Terminal bool
}

// Start returns the initial state for bank. A bank with no visible
// question starts Terminal.
func Start(bank *domain.QuestionBank) State {
	return normalize(bank, State{Answers: domain.AnswerMap{}})
}

// Visible returns the questions shown for the state's answers.
func Visible(bank *domain.QuestionBank, s State) []domain.Question {
	return bank.VisibleQuestions(s.Answers)
}

// Current returns the question at the state's index.
func Current(bank *domain.QuestionBank, s State) (domain.Question, bool) {
	if s.Terminal {
		return domain.Question{}, false
	}
	visible := Visible(bank, s)
	if s.Index < 0 || s.Index >= len(visible) {
		return domain.Question{}, false
	}
	return visible[s.Index], true
}

// Answer records value for the current question without advancing.
func Answer(bank *domain.QuestionBank, s State, value domain.Answer) (State, error) {
	if s.Terminal {
		return s, domain.ErrTerminal
	}
	q, ok := Current(bank, s)
	if !ok {
		return s, domain.ErrTerminal
	}
	if !q.Accepts(value) {
		return s, domain.NewInvalidAnswerError(q.ID, fmt.Sprintf("%s is not a valid answer for a %s question", value, q.Type))
	}
	next := State{Answers: s.Answers.Clone(), Index: s.Index}
	next.Answers[q.ID] = value
	return normalize(bank, next), nil
}

// Next advances past the current question, which must have an answer.
func Next(bank *domain.QuestionBank, s State) (State, error) {
	if s.Terminal {
		return s, domain.ErrTerminal
	}
	q, ok := Current(bank, s)
	if !ok {
		return s, domain.ErrTerminal
	}
	if !s.Answers.Has(q.ID) {
		return s, domain.NewMissingAnswerError(q.ID)
	}
	return advance(bank, s), nil
}

// Skip advances past the current question without requiring an answer.
func Skip(bank *domain.QuestionBank, s State) (State, error) {
	if s.Terminal {
		return s, domain.ErrTerminal
	}
	return advance(bank, s), nil
}

// Prev steps back one question, stopping at the first. Terminal is absorbing.
func Prev(bank *domain.QuestionBank, s State) State {
	if s.Terminal {
		return s
	}
	next := s
	if next.Index > 0 {
		next.Index--
	}
	return normalize(bank, next)
}

func advance(bank *domain.QuestionBank, s State) State {
	visible := Visible(bank, s)
	next := s
	next.Index++
	if next.Index > len(visible)-1 {
		next.Terminal = true
		return next
	}
	return normalize(bank, next)
}

// normalize clamps the index into the visible set and finishes the session
// once nothing is visible.
func normalize(bank *domain.QuestionBank, s State) State {
	if s.Terminal {
		return s
	}
	visible := Visible(bank, s)
	if len(visible) == 0 {
		s.Index = 0
		s.Terminal = true
		return s
	}
	if s.Index > len(visible)-1 {
		s.Index = len(visible) - 1
	}
	if s.Index < 0 {
		s.Index = 0
	}
	return s
}
