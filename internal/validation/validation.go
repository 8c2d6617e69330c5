package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/fedutinova/docgen/internal/common"
	"github.com/fedutinova/docgen/internal/models"
)

const (
	MaxBodySize   = 1 << 20 // 1mb
	MaxTextLength = 8000
)

var validate = newValidator()

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Is implements errors.Is for ValidationErrors
func (e ValidationErrors) Is(target error) bool {
	return target == common.ErrValidation
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// DecodeDocumentRequest reads a JSON DocumentRequest and validates it.
// Malformed JSON yields common.ErrBadRequest; schema violations yield ValidationErrors.
func DecodeDocumentRequest(body io.Reader) (models.DocumentRequest, error) {
	var req models.DocumentRequest

	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return req, ValidationErrors{{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("must be of type %s", typeErr.Type.Kind()),
			}}
		}
		if errors.Is(err, io.EOF) {
			return req, ValidationErrors{{Field: "body", Message: "request body is required"}}
		}
		return req, fmt.Errorf("%w: %w", common.ErrBadRequest, err)
	}

	if errs := ValidateDocumentRequest(req); len(errs) > 0 {
		return req, errs
	}
	return req, nil
}

func ValidateDocumentRequest(req models.DocumentRequest) ValidationErrors {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	var errs ValidationErrors
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "notblank":
		return "must not be blank"
	case "max":
		return fmt.Sprintf("exceeds maximum length of %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
