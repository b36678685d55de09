package schema

import "time"

// ProfileData keeps the registration form as typed by the user.
type ProfileData struct {
	Name        string `json:"nome"`
	Email       string `json:"email"`
	Phone       string `json:"celular"`
	TaxID       string `json:"cpf"`
	BirthDate   string `json:"dataNascimento"`
	Gender      string `json:"genero"`
	PostalCode  string `json:"cep"`
	Street      string `json:"endereco"`
	Number      string `json:"numero"`
	Complement  string `json:"complemento,omitempty"`
	District    string `json:"bairro"`
	City        string `json:"cidade"`
	State       string `json:"estado"`
	FullAddress string `json:"enderecoCompleto,omitempty"`
}

type User struct {
	ID            string      `json:"id"`
	Name          string      `json:"nome"`
	Email         string      `json:"email"`
	Phone         string      `json:"celular"`
	PasswordHash  string      `json:"senha"`
	Photo         string      `json:"photo,omitempty"`
	EmailVerified bool        `json:"emailVerified"`
	PhoneVerified bool        `json:"celularVerified"`
	Profile       ProfileData `json:"profileData"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// PublicUser is a User without credentials.
type PublicUser struct {
	ID            string      `json:"id"`
	Name          string      `json:"nome"`
	Email         string      `json:"email"`
	Phone         string      `json:"celular"`
	Photo         string      `json:"photo,omitempty"`
	EmailVerified bool        `json:"emailVerified"`
	PhoneVerified bool        `json:"celularVerified"`
	Profile       ProfileData `json:"profileData"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Photo:         u.Photo,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		Profile:       u.Profile,
		CreatedAt:     u.CreatedAt,
	}
}

type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"nome"`
}
