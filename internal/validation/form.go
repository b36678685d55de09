package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return ValidateTaxID(fl.Field().String())
	})
	_ = validate.RegisterValidation("cep", func(fl validator.FieldLevel) bool {
		return ValidatePostalCodeLocal(fl.Field().String())
	})
	_ = validate.RegisterValidation("celular", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
	_ = validate.RegisterValidation("storefront_email", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String())
	})
}

// FieldError names the json field and the rule it broke.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type FormError struct {
	Fields []FieldError
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		names = append(names, field.Field+":"+field.Rule)
	}
	return "invalid form: " + strings.Join(names, ", ")
}

// Has reports whether field failed rule. An empty rule matches any rule.
func (e *FormError) Has(field, rule string) bool {
	for _, f := range e.Fields {
		if f.Field == field && (rule == "" || f.Rule == rule) {
			return true
		}
	}
	return false
}

// Struct validates payload against its validate tags and returns a *FormError.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	formError := &FormError{Fields: make([]FieldError, 0, len(validationErrors))}
	for _, fieldError := range validationErrors {
		formError.Fields = append(formError.Fields, FieldError{
			Field: fieldError.Field(),
			Rule:  fieldError.Tag(),
		})
	}

	return formError
}
