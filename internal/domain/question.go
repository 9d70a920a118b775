package domain

import "encoding/json"

// Category is a body-system code used to bucket questions and scores.
type Category string

const (
	CategoryGI   Category = "GI"
	CategoryRESP Category = "RESP"
	CategorySKIN Category = "SKIN"
	CategoryMSK  Category = "MSK"
	CategoryENDO Category = "ENDO"

	// CategoryPrior accumulates background risk factors and is never displayed.
	CategoryPrior Category = "PRIOR"
)

// DisplayCategories are the categories reported in an assessment, in display order.
var DisplayCategories = []Category{CategoryGI, CategoryRESP, CategorySKIN, CategoryMSK, CategoryENDO}

// IsDisplay reports whether c is one of the five reported categories.
func (c Category) IsDisplay() bool {
	for _, d := range DisplayCategories {
		if d == c {
			return true
		}
	}
	return false
}

// QuestionType is the answer shape a question expects.
type QuestionType string

const (
	QuestionTypeBool   QuestionType = "bool"
	QuestionTypeChoice QuestionType = "choice"
)

// Rule matches when the referenced question's answer equals Is.
type Rule struct {
	QuestionID string `json:"questionId"`
	Is         Answer `json:"is"`
}

// Condition controls the visibility of a question. Exactly one of Any or All
// is expected; see Evaluate for the other shapes.
type Condition struct {
	Any []Rule `json:"any,omitempty"`
	All []Rule `json:"all,omitempty"`
}

// Evaluate reports whether the condition holds for the given answers.
// A nil condition, or one carrying neither list, is always visible. When both
// lists are present both must hold.
func (c *Condition) Evaluate(answers AnswerMap) bool {
	if c == nil {
		return true
	}
	if c.Any == nil && c.All == nil {
		return true
	}
	if c.Any != nil && !anyRule(c.Any, answers) {
		return false
	}
	if c.All != nil && !allRules(c.All, answers) {
		return false
	}
	return true
}

func (r Rule) matches(answers AnswerMap) bool {
	a, ok := answers[r.QuestionID]
	if !ok || a.IsEmpty() {
		return false
	}
	return a.Equal(r.Is)
}

func anyRule(rules []Rule, answers AnswerMap) bool {
	for _, r := range rules {
		if r.matches(answers) {
			return true
		}
	}
	return false
}

func allRules(rules []Rule, answers AnswerMap) bool {
	for _, r := range rules {
		if !r.matches(answers) {
			return false
		}
	}
	return true
}

// Question is one entry of the question bank.
type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Tags    []Category   `json:"tags"`
	Weight  float64      `json:"weight"`
	RedFlag bool         `json:"redFlag"`
	ShowIf  *Condition   `json:"showIf,omitempty"`
}

// UnmarshalJSON applies the weight default of 1 when the field is absent.
func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	aux := struct {
		*alias
		Weight *float64 `json:"weight"`
	}{alias: (*alias)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	q.Weight = 1
	if aux.Weight != nil {
		q.Weight = *aux.Weight
	}
	return nil
}

// Visible reports whether the question is shown for the given answers.
func (q Question) Visible(answers AnswerMap) bool {
	return q.ShowIf.Evaluate(answers)
}

// Accepts reports whether a is a well-formed answer for this question type.
// Questions of unknown type accept nothing.
func (q Question) Accepts(a Answer) bool {
	switch q.Type {
	case QuestionTypeBool:
		return a.Kind() == AnswerBool
	case QuestionTypeChoice:
		c, ok := a.Choice()
		return ok && c.Valid()
	}
	return false
}

// HasTag reports whether the question is tagged with c.
func (q Question) HasTag(c Category) bool {
	for _, t := range q.Tags {
		if t == c {
			return true
		}
	}
	return false
}

// QuestionBank is the static catalog consumed by the flow, scoring and UI.
// It is loaded once and never mutated.
type QuestionBank struct {
	Version    string              `json:"version"`
	Categories map[Category]string `json:"categories"`
	Questions  []Question          `json:"questions"`
}

// Question looks up a question by id.
func (b *QuestionBank) Question(id string) (Question, bool) {
	if b == nil {
		return Question{}, false
	}
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Label resolves the display label of a category, falling back to the code.
func (b *QuestionBank) Label(c Category) string {
	if b != nil {
		if label, ok := b.Categories[c]; ok && label != "" {
			return label
		}
	}
	return string(c)
}

// VisibleQuestions filters the bank by each question's condition.
func (b *QuestionBank) VisibleQuestions(answers AnswerMap) []Question {
	if b == nil {
		return nil
	}
	visible := make([]Question, 0, len(b.Questions))
	for _, q := range b.Questions {
		if q.Visible(answers) {
			visible = append(visible, q)
		}
	}
	return visible
}
