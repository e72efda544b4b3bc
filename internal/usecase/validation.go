package usecase

import (
	"strings"

	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"
	"resume-ranker/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// validateInput runs struct validation and folds every failure into one
// BadRequest message.
func validateInput(v *validator.Validate, input any) error {
	if err := v.Struct(input); err != nil {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	return nil
}

func requireSession(sess *domain.Session) error {
	if !sess.Valid() {
		return apperror.Unauthorized("User not authenticated")
	}
	return nil
}
