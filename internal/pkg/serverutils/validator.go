package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"rag-chatbot-be/internal/pkg/apperrors"
)

var validate = validator.New()

// ValidateRequest checks struct validate tags and folds every violation into
// one validation-kind error so the client sees all problems at once.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(apperrors.KindValidation, "invalid request", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
	}

	return apperrors.New(apperrors.KindValidation, strings.Join(messages, "; "))
}
