package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Choice is one of the fixed frequency answers of a choice question.
type Choice string

const (
	ChoiceNone      Choice = "없음" // none
	ChoiceSometimes Choice = "가끔" // sometimes
	ChoiceOften     Choice = "자주" // often
)

// Choices lists the accepted choice values in ascending severity.
var Choices = []Choice{ChoiceNone, ChoiceSometimes, ChoiceOften}

// Valid reports whether c is one of the fixed choices.
func (c Choice) Valid() bool {
	switch c {
	case ChoiceNone, ChoiceSometimes, ChoiceOften:
		return true
	}
	return false
}

// AnswerKind tells which variant an Answer holds.
type AnswerKind int

const (
	AnswerEmpty AnswerKind = iota
	AnswerBool
	AnswerChoice
)

// Answer is either a boolean or a choice string. The zero value is empty and
// never equals an answered value.
type Answer struct {
	kind   AnswerKind
	flag   bool
	choice Choice
}

func BoolAnswer(v bool) Answer {
	return Answer{kind: AnswerBool, flag: v}
}

func ChoiceAnswer(c Choice) Answer {
	return Answer{kind: AnswerChoice, choice: c}
}

func (a Answer) Kind() AnswerKind { return a.kind }

func (a Answer) IsEmpty() bool { return a.kind == AnswerEmpty }

// Bool returns the boolean value and whether the answer is a boolean.
func (a Answer) Bool() (bool, bool) {
	return a.flag, a.kind == AnswerBool
}

// Choice returns the choice value and whether the answer is a choice.
func (a Answer) Choice() (Choice, bool) {
	return a.choice, a.kind == AnswerChoice
}

// Equal is strict: a boolean never equals a string.
func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case AnswerBool:
		return a.flag == b.flag
	case AnswerChoice:
		return a.choice == b.choice
	}
	return true
}

func (a Answer) String() string {
	switch a.kind {
	case AnswerBool:
		return fmt.Sprintf("%t", a.flag)
	case AnswerChoice:
		return string(a.choice)
	}
	return "<empty>"
}

// MarshalJSON encodes the bare boolean or string.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerBool:
		return json.Marshal(a.flag)
	case AnswerChoice:
		return json.Marshal(string(a.choice))
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a boolean or a string. Choice strings are not
// checked here; validation happens against the question bank.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*a = BoolAnswer(v)
	case string:
		*a = ChoiceAnswer(Choice(v))
	default:
		return fmt.Errorf("answer must be a boolean or a string, got %s", string(data))
	}
	return nil
}

// AnswerMap maps question id to the recorded answer.
type AnswerMap map[string]Answer

// Clone returns an independent copy.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Has reports whether the question has a non-empty answer.
func (m AnswerMap) Has(questionID string) bool {
	a, ok := m[questionID]
	return ok && !a.IsEmpty()
}
