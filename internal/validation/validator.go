package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"pawcheck/internal/domain"
	"pawcheck/internal/util"
)

var (
	validULID  = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	validPetID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

const maxPetIDLength = 64

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePetID validates the pet identifier used to scope history.
func (v *Validator) ValidatePetID(petID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(petID) == "" {
		errors = append(errors, domain.NewMissingFieldError("pet_id"))
		return errors
	}
	if len(petID) > maxPetIDLength {
		errors = append(errors, domain.NewOutOfRangeError("pet_id", len(petID), 1, maxPetIDLength))
	} else if !validPetID.MatchString(petID) {
		errors = append(errors, domain.NewInvalidFormatError("pet_id", petID))
	}

	return errors
}

// ValidateResultID validates an assessment result id.
func (v *Validator) ValidateResultID(resultID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(resultID) == "" {
		errors = append(errors, domain.NewMissingFieldError("result_id"))
	} else if !isValidULID(resultID) {
		errors = append(errors, domain.NewInvalidFormatError("result_id", resultID))
	}

	return errors
}

// ValidateLimit validates a history page size.
func (v *Validator) ValidateLimit(limit, max int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if limit <= 0 || limit > max {
		errors = append(errors, domain.NewOutOfRangeError("limit", limit, 1, max))
	}

	return errors
}

// ValidateAnswers checks that every answered id exists in bank and that
// the value has the shape its question accepts. Errors are ordered by
// question id.
func (v *Validator) ValidateAnswers(bank *domain.QuestionBank, answers domain.AnswerMap) domain.ValidationErrors {
	var errors domain.ValidationErrors

	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		q, ok := bank.Question(id)
		if !ok {
			errors = append(errors, domain.NewUnknownQuestionError(id))
			continue
		}
		a := answers[id]
		if a.IsEmpty() {
			continue
		}
		if !q.Accepts(a) {
			errors = append(errors, domain.NewInvalidAnswerError(id, fmt.Sprintf("%s is not a valid answer for a %s question", a, q.Type)))
		}
	}

	return errors
}

// isValidULID accepts canonical upper-case ULIDs whose timestamp does not
// overflow.
func isValidULID(s string) bool {
	if len(s) != 26 || !validULID.MatchString(s) {
		return false
	}
	_, err := util.ULIDTime(s)
	return err == nil
}
