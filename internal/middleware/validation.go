package middleware

import (
	"errors"
	"strconv"
	"strings"

	"pawcheck/internal/domain"
	"pawcheck/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the validation middleware.
const (
	LocalPetID        = "validated_pet_id"
	LocalResultID     = "validated_result_id"
	LocalHistoryLimit = "validated_limit"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidatePetID validates the petId path parameter
func (vm *ValidationMiddleware) ValidatePetID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		petID := c.Params("petId")

		if errors := vm.validator.ValidatePetID(petID); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(LocalPetID, petID)
		return c.Next()
	}
}

// ValidateResultID validates the resultId path parameter
func (vm *ValidationMiddleware) ValidateResultID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		resultID := c.Params("resultId")

		if errors := vm.validator.ValidateResultID(resultID); len(errors) > 0 {
			return errors
		}

		c.Locals(LocalResultID, resultID)
		return c.Next()
	}
}

// ValidateHistoryLimit validates the optional limit query parameter against
// the retention window. An absent limit and limit=0 are stored as 0, which
// the service reads as the full window.
func (vm *ValidationMiddleware) ValidateHistoryLimit(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 0
		if limitStr := c.Query("limit"); limitStr != "" {
			parsed, err := parseLimit(limitStr, max)
			if err != nil {
				return domain.ValidationErrors{
					domain.NewInvalidFormatError("limit", limitStr),
				}
			}
			if parsed != 0 {
				if errors := vm.validator.ValidateLimit(parsed, max); len(errors) > 0 {
					return errors
				}
			}
			limit = parsed
		}

		c.Locals(LocalHistoryLimit, limit)
		return c.Next()
	}
}

// parseLimit parses an unsigned decimal limit. Values beyond max, including
// ones that overflow int, are returned as max+1 so the range check reports
// them.
func parseLimit(limitStr string, max int) (int, error) {
	if strings.TrimLeft(limitStr, "0123456789") != "" {
		return 0, domain.NewValidationError("limit must be a number")
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return max + 1, nil
		}
		return 0, domain.NewValidationError("limit must be a number")
	}
	if limit > max {
		return max + 1, nil
	}
	return limit, nil
}
