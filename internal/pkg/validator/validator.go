// Package validator provides custom validation functions and utilities.
// Пакет validator предоставляет кастомные функции валидации и утилиты.
package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/andrewhigh08/weather-api/internal/domain"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// customValidations maps tag names to their validation functions.
// customValidations сопоставляет имена тегов и функции валидации.
var customValidations = map[string]validator.Func{
	"apiversion": validateAPIVersion,
	"cityname":   validateCityName,
	"nohtml":     validateNoHTML,
}

// CustomValidator wraps the standard validator with custom validations.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates a new CustomValidator with all custom validations registered.
func New() (*CustomValidator, error) {
	v := validator.New()
	if err := register(v); err != nil {
		return nil, err
	}
	return &CustomValidator{validate: v}, nil
}

// Validate validates a struct using the registered validations.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// RegisterGinValidations registers the custom tags on gin's binding engine,
// so `binding:"..."` struct tags can use them.
// RegisterGinValidations регистрирует кастомные теги в движке привязки gin,
// чтобы их можно было использовать в тегах `binding:"..."`.
func RegisterGinValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return register(v)
}

func register(v *validator.Validate) error {
	for tag, fn := range customValidations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// validateAPIVersion accepts "1", "1.0", "2.5" and rejects anything ParseVersion refuses.
func validateAPIVersion(fl validator.FieldLevel) bool {
	_, err := domain.ParseVersion(fl.Field().String())
	return err == nil
}

// validateCityName allows letters, spaces, hyphens, apostrophes and dots.
func validateCityName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if strings.TrimSpace(value) == "" {
		return false
	}

	for _, char := range value {
		switch {
		case unicode.IsLetter(char), unicode.IsSpace(char):
		case char == '-', char == '\'', char == '.':
		default:
			return false
		}
	}

	return true
}

// validateNoHTML ensures the field contains no HTML tags.
func validateNoHTML(fl validator.FieldLevel) bool {
	return !htmlTagPattern.MatchString(fl.Field().String())
}

// ValidationErrors represents a map of field names to error messages.
type ValidationErrors map[string]string

// Details converts the errors into the details map of an API error.
// Details преобразует ошибки в карту деталей ошибки API.
func (ve ValidationErrors) Details() map[string]interface{} {
	details := make(map[string]interface{}, len(ve))
	for field, msg := range ve {
		details[field] = msg
	}
	return details
}

// FormatValidationErrors converts validator.ValidationErrors to a user-friendly format.
// FormatValidationErrors преобразует validator.ValidationErrors в удобный для пользователя формат.
func FormatValidationErrors(err error) ValidationErrors {
	result := make(ValidationErrors)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := strings.ToLower(e.Field())
			result[field] = formatErrorMessage(e)
		}
	}

	return result
}

// formatErrorMessage returns a user-friendly error message for a validation error.
func formatErrorMessage(e validator.FieldError) string {
	unit := " characters"
	if isNumeric(e.Kind()) {
		unit = ""
	}

	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + e.Param() + unit
	case "max":
		return "Must be at most " + e.Param() + unit
	case "apiversion":
		return "Must be an API version such as 1 or 1.5"
	case "cityname":
		return "Must contain only letters, spaces, hyphens, apostrophes and dots"
	case "nohtml":
		return "HTML tags are not allowed"
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
