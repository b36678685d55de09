package account

import (
	"strings"

	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/validation"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// RegistrationForm is the sign-up payload.
type RegistrationForm struct {
	Name                 string              `json:"nome" validate:"required"`
	Email                openapi_types.Email `json:"email" validate:"required,storefront_email"`
	Phone                string              `json:"celular" validate:"required"`
	TaxID                string              `json:"cpf" validate:"required,cpf"`
	BirthDate            openapi_types.Date  `json:"dataNascimento"`
	Gender               string              `json:"genero" validate:"required,oneof=masculino feminino outro nao-informar"`
	PostalCode           string              `json:"cep" validate:"required,cep"`
	Street               string              `json:"endereco" validate:"required"`
	Number               string              `json:"numero" validate:"required"`
	Complement           string              `json:"complemento"`
	District             string              `json:"bairro" validate:"required"`
	City                 string              `json:"cidade" validate:"required"`
	State                string              `json:"estado" validate:"required"`
	Password             string              `json:"senha" validate:"required,min=6"`
	PasswordConfirmation string              `json:"confirmaSenha" validate:"required,eqfield=Password"`
	Photo                string              `json:"photo,omitempty"`
}

func (f RegistrationForm) trimmed() RegistrationForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = openapi_types.Email(strings.TrimSpace(string(f.Email)))
	f.Phone = strings.TrimSpace(f.Phone)
	f.TaxID = strings.TrimSpace(f.TaxID)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Street = strings.TrimSpace(f.Street)
	f.Number = strings.TrimSpace(f.Number)
	f.Complement = strings.TrimSpace(f.Complement)
	f.District = strings.TrimSpace(f.District)
	f.City = strings.TrimSpace(f.City)
	return f
}

// validate checks the tags, then the birth date which the tags cannot reach.
func (f RegistrationForm) validate() error {
	err := validation.Struct(f)

	if f.BirthDate.Time.IsZero() {
		formError, ok := err.(*validation.FormError)
		if err != nil && !ok {
			return err
		}
		if formError == nil {
			formError = &validation.FormError{}
		}
		formError.Fields = append(formError.Fields, validation.FieldError{Field: "dataNascimento", Rule: "required"})
		return formError
	}

	return err
}

func (f RegistrationForm) profile() schema.ProfileData {
	return schema.ProfileData{
		Name:       f.Name,
		Email:      string(f.Email),
		Phone:      f.Phone,
		TaxID:      f.TaxID,
		BirthDate:  f.BirthDate.String(),
		Gender:     f.Gender,
		PostalCode: f.PostalCode,
		Street:     f.Street,
		Number:     f.Number,
		Complement: f.Complement,
		District:   f.District,
		City:       f.City,
		State:      f.State,
	}
}
