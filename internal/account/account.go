package account

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"bitbucket.org/sportshop/storefront/internal/postal"
	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/storage"
	"bitbucket.org/sportshop/storefront/internal/validation"
	"bitbucket.org/sportshop/storefront/internal/verification"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("wrong password")
	ErrUnknownField       = errors.New("field cannot be edited")
	ErrEmptyValue         = errors.New("value must not be empty")
	ErrInvalidValue       = errors.New("invalid value")
)

var genders = []string{"masculino", "feminino", "outro", "nao-informar"}

type Service struct {
	postal     postal.Resolver
	verifier   *verification.Verifier
	bcryptCost int
	log        *zerolog.Logger

	Now   func() time.Time
	NewID func() string
}

func NewService(resolver postal.Resolver, verifier *verification.Verifier, bcryptCost int, log *zerolog.Logger) *Service {
	return &Service{
		postal:     resolver,
		verifier:   verifier,
		bcryptCost: bcryptCost,
		log:        log,
		Now:        time.Now,
		NewID:      uuid.NewString,
	}
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(a, b)
}

func emailTaken(users []schema.User, email string, exceptID string) bool {
	return slices.ContainsFunc(users, func(user schema.User) bool {
		return user.ID != exceptID && sameEmail(user.Email, email)
	})
}

func sessionFor(user schema.User) schema.Session {
	return schema.Session{UserID: user.ID, Email: user.Email, Name: user.Name}
}

func verificationTarget(channel verification.Channel, user schema.User) string {
	if channel == verification.Phone {
		return validation.Digits(user.Phone)
	}
	return strings.ToLower(user.Email)
}

// issue starts a challenge and only logs failures, so a cooldown never
// blocks the change that triggered it.
func (s *Service) issue(ctx context.Context, channel verification.Channel, user schema.User) {
	if _, err := s.verifier.Issue(ctx, channel, verificationTarget(channel, user)); err != nil {
		s.log.Warn().
			Err(err).
			Str("label", "account").
			Str("channel", string(channel)).
			Msg("Verification not issued")
	}
}

// Register creates the user, logs it in and sends the e-mail challenge.
func (s *Service) Register(ctx context.Context, repository *storage.Repository, form RegistrationForm) (schema.PublicUser, error) {
	form = form.trimmed()

	if err := form.validate(); err != nil {
		return schema.PublicUser{}, err
	}

	if _, err := s.postal.Resolve(ctx, form.PostalCode); err != nil {
		return schema.PublicUser{}, fmt.Errorf("resolving postal code: %w", err)
	}

	users, err := repository.Users(ctx)
	if err != nil {
		return schema.PublicUser{}, err
	}

	if emailTaken(users, string(form.Email), "") {
		return schema.PublicUser{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.bcryptCost)
	if err != nil {
		return schema.PublicUser{}, fmt.Errorf("hashing password: %w", err)
	}

	user := schema.User{
		ID:           s.NewID(),
		Name:         form.Name,
		Email:        string(form.Email),
		Phone:        form.Phone,
		PasswordHash: string(hash),
		Photo:        form.Photo,
		Profile:      form.profile(),
		CreatedAt:    s.Now().UTC(),
	}

	if err := repository.SaveUsers(ctx, append(users, user)); err != nil {
		return schema.PublicUser{}, err
	}

	if err := repository.SaveSession(ctx, sessionFor(user)); err != nil {
		return schema.PublicUser{}, err
	}

	s.issue(ctx, verification.Email, user)

	s.log.Info().
		Str("label", "account").
		Str("userId", user.ID).
		Msg("User registered")

	return user.Public(), nil
}

func (s *Service) Login(ctx context.Context, repository *storage.Repository, email string, password string, remember bool) (schema.PublicUser, error) {
	users, err := repository.Users(ctx)
	if err != nil {
		return schema.PublicUser{}, err
	}

	i := slices.IndexFunc(users, func(user schema.User) bool {
		return sameEmail(user.Email, strings.TrimSpace(email))
	})
	if i < 0 {
		return schema.PublicUser{}, ErrInvalidCredentials
	}

	user := users[i]
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return schema.PublicUser{}, ErrInvalidCredentials
	}

	if err := repository.SaveSession(ctx, sessionFor(user)); err != nil {
		return schema.PublicUser{}, err
	}

	if remember {
		err = repository.SaveRemember(ctx)
	} else {
		err = repository.ClearRemember(ctx)
	}
	if err != nil {
		return schema.PublicUser{}, err
	}

	return user.Public(), nil
}

func (s *Service) Logout(ctx context.Context, repository *storage.Repository) error {
	if err := repository.ClearSession(ctx); err != nil {
		return err
	}
	return repository.ClearRemember(ctx)
}

// Current returns the logged in user.
func (s *Service) Current(ctx context.Context, repository *storage.Repository) (schema.PublicUser, error) {
	_, user, _, err := s.current(ctx, repository)
	if err != nil {
		return schema.PublicUser{}, err
	}
	return user.Public(), nil
}

// current loads the user list and the position of the session user in it.
func (s *Service) current(ctx context.Context, repository *storage.Repository) ([]schema.User, schema.User, int, error) {
	session, err := repository.Session(ctx)
	if err != nil {
		return nil, schema.User{}, -1, err
	}

	if session == nil {
		return nil, schema.User{}, -1, ErrNotLoggedIn
	}

	users, err := repository.Users(ctx)
	if err != nil {
		return nil, schema.User{}, -1, err
	}

	i := slices.IndexFunc(users, func(user schema.User) bool { return user.ID == session.UserID })
	if i < 0 {
		return nil, schema.User{}, -1, ErrUserNotFound
	}

	return users, users[i], i, nil
}

// UpdateField edits one profile field of the logged in user. Changing the
// e-mail or phone resets its verification and sends a new code.
func (s *Service) UpdateField(ctx context.Context, repository *storage.Repository, field string, value string) (schema.PublicUser, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return schema.PublicUser{}, ErrEmptyValue
	}

	users, user, i, err := s.current(ctx, repository)
	if err != nil {
		return schema.PublicUser{}, err
	}

	var reverify verification.Channel

	switch field {
	case "nome":
		user.Name = value
		user.Profile.Name = value
	case "email":
		if !validation.ValidateEmail(value) {
			return schema.PublicUser{}, fmt.Errorf("%w: email", ErrInvalidValue)
		}
		if emailTaken(users, value, user.ID) {
			return schema.PublicUser{}, ErrEmailTaken
		}
		user.Email = value
		user.Profile.Email = value
		user.EmailVerified = false
		reverify = verification.Email
	case "celular":
		if !validation.ValidatePhone(value) {
			return schema.PublicUser{}, fmt.Errorf("%w: celular", ErrInvalidValue)
		}
		user.Phone = value
		user.Profile.Phone = value
		user.PhoneVerified = false
		reverify = verification.Phone
	case "endereco":
		user.Profile.FullAddress = value
	case "dataNascimento":
		if _, err := time.Parse(openapi_types.DateFormat, value); err != nil {
			return schema.PublicUser{}, fmt.Errorf("%w: dataNascimento", ErrInvalidValue)
		}
		user.Profile.BirthDate = value
	case "genero":
		if !slices.Contains(genders, value) {
			return schema.PublicUser{}, fmt.Errorf("%w: genero", ErrInvalidValue)
		}
		user.Profile.Gender = value
	default:
		return schema.PublicUser{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	users[i] = user
	if err := repository.SaveUsers(ctx, users); err != nil {
		return schema.PublicUser{}, err
	}

	if field == "nome" || field == "email" {
		if err := repository.SaveSession(ctx, sessionFor(user)); err != nil {
			return schema.PublicUser{}, err
		}
	}

	if reverify != "" {
		s.issue(ctx, reverify, user)
	}

	return user.Public(), nil
}

// SaveProfile replaces the profile data. E-mail and phone keep their current
// values, they change through UpdateField only.
func (s *Service) SaveProfile(ctx context.Context, repository *storage.Repository, data schema.ProfileData) (schema.PublicUser, error) {
	if data.TaxID != "" && !validation.ValidateTaxID(data.TaxID) {
		return schema.PublicUser{}, fmt.Errorf("%w: cpf", ErrInvalidValue)
	}

	if data.PostalCode != "" && !validation.ValidatePostalCodeLocal(data.PostalCode) {
		return schema.PublicUser{}, fmt.Errorf("%w: cep", ErrInvalidValue)
	}

	if data.Gender != "" && !slices.Contains(genders, data.Gender) {
		return schema.PublicUser{}, fmt.Errorf("%w: genero", ErrInvalidValue)
	}

	users, user, i, err := s.current(ctx, repository)
	if err != nil {
		return schema.PublicUser{}, err
	}

	data.Email = user.Email
	data.Phone = user.Phone
	if strings.TrimSpace(data.Name) == "" {
		data.Name = user.Name
	}

	user.Name = data.Name
	user.Profile = data
	users[i] = user

	if err := repository.SaveUsers(ctx, users); err != nil {
		return schema.PublicUser{}, err
	}

	if err := repository.SaveSession(ctx, sessionFor(user)); err != nil {
		return schema.PublicUser{}, err
	}

	return user.Public(), nil
}

// SavePhoto stores the photo data URL, an empty photo removes it.
func (s *Service) SavePhoto(ctx context.Context, repository *storage.Repository, photo string) (schema.PublicUser, error) {
	users, user, i, err := s.current(ctx, repository)
	if err != nil {
		return schema.PublicUser{}, err
	}

	user.Photo = photo
	users[i] = user

	if err := repository.SaveUsers(ctx, users); err != nil {
		return schema.PublicUser{}, err
	}

	return user.Public(), nil
}

// Delete removes the logged in user after checking its password.
func (s *Service) Delete(ctx context.Context, repository *storage.Repository, password string) error {
	users, user, i, err := s.current(ctx, repository)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrWrongPassword
	}

	if err := repository.SaveUsers(ctx, slices.Delete(users, i, i+1)); err != nil {
		return err
	}

	if err := s.Logout(ctx, repository); err != nil {
		return err
	}

	s.log.Info().
		Str("label", "account").
		Str("userId", user.ID).
		Msg("User deleted")

	return nil
}

// ResendVerification issues a new code for the channel of the logged in user.
func (s *Service) ResendVerification(ctx context.Context, repository *storage.Repository, channel verification.Channel) (verification.Challenge, error) {
	_, user, _, err := s.current(ctx, repository)
	if err != nil {
		return verification.Challenge{}, err
	}

	return s.verifier.Issue(ctx, channel, verificationTarget(channel, user))
}

// ConfirmVerification checks code and marks the channel verified on success.
func (s *Service) ConfirmVerification(ctx context.Context, repository *storage.Repository, channel verification.Channel, code string) (bool, error) {
	users, user, i, err := s.current(ctx, repository)
	if err != nil {
		return false, err
	}

	ok, err := s.verifier.Confirm(ctx, verificationTarget(channel, user), strings.TrimSpace(code))
	if err != nil || !ok {
		return false, err
	}

	if channel == verification.Phone {
		user.PhoneVerified = true
	} else {
		user.EmailVerified = true
	}
	users[i] = user

	if err := repository.SaveUsers(ctx, users); err != nil {
		return false, err
	}

	return true, nil
}
