package dto

import "pawcheck/internal/domain"

// AnswersRequest carries a (possibly partial) answer map
// @Description Answers keyed by question id. Values are true/false or 없음/가끔/자주.
type AnswersRequest struct {
	Answers domain.AnswerMap `json:"answers"`
}

// QuestionBankResponse is the full question bank
// @Description Question bank served to clients
type QuestionBankResponse struct {
	Version    string                     `json:"version"`
	Categories map[domain.Category]string `json:"categories"`
	Questions  []domain.Question          `json:"questions"`
}

// CategoryResponse is one display category and its label
type CategoryResponse struct {
	Code  domain.Category `json:"code"`
	Label string          `json:"label"`
}

// VisibleQuestionsResponse describes the flow position for an answer map
// @Description Visible question ids and the first unanswered one
type VisibleQuestionsResponse struct {
	Visible        []string `json:"visible"`
	NextQuestionID string   `json:"next_question_id,omitempty"`
	Answered       int      `json:"answered"`
	Total          int      `json:"total"`
	Terminal       bool     `json:"terminal"`
}

// AssessmentResponse is a result plus the labels needed to render it
// @Description Assessment result
type AssessmentResponse struct {
	*domain.AssessmentResult
	CategoryLabels map[domain.Category]string `json:"categoryLabels"`
}

// HistoryResponse lists a pet's recorded results, newest last
type HistoryResponse struct {
	PetID       string                    `json:"pet_id"`
	Assessments []domain.AssessmentResult `json:"assessments"`
	Count       int                       `json:"count"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
