package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bitbucket.org/sportshop/storefront/internal/postal"
	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/storage"
	"bitbucket.org/sportshop/storefront/internal/validation"
	"bitbucket.org/sportshop/storefront/internal/verification"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type resolverMock struct {
	err error
}

func (r *resolverMock) Resolve(_ context.Context, code string) (schema.Address, error) {
	if r.err != nil {
		return schema.Address{}, r.err
	}
	return schema.Address{PostalCode: code, City: "São Paulo", State: "SP"}, nil
}

type senderMock struct {
	delivered []verification.Challenge
}

func (s *senderMock) Deliver(_ context.Context, challenge verification.Challenge) error {
	s.delivered = append(s.delivered, challenge)
	return nil
}

type fixture struct {
	service    *Service
	engine     storage.Engine
	repository *storage.Repository
	resolver   *resolverMock
	sender     *senderMock
	now        time.Time
}

func createFixture() *fixture {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	f := &fixture{
		resolver: &resolverMock{},
		sender:   &senderMock{},
		now:      time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	verifier := verification.NewVerifier(verification.NewMemoryStore(), f.sender, &log)
	verifier.Now = func() time.Time { return f.now }
	verifier.GenerateCode = func() (string, error) { return "123456", nil }

	f.service = NewService(f.resolver, verifier, bcrypt.MinCost, &log)
	f.service.Now = func() time.Time { return f.now }
	f.service.NewID = func() string { return "user-1" }

	f.engine = storage.NewMemoryEngine()
	f.repository = storage.NewRepository(f.engine, "browser-1", &log)

	return f
}

func validForm() RegistrationForm {
	var form RegistrationForm
	_ = json.Unmarshal([]byte(`{
		"nome": "Ana Souza",
		"email": "Ana@Example.com",
		"celular": "(11) 98765-4321",
		"cpf": "529.982.247-25",
		"dataNascimento": "1990-05-17",
		"genero": "feminino",
		"cep": "01001-000",
		"endereco": "Praça da Sé",
		"numero": "100",
		"bairro": "Sé",
		"cidade": "São Paulo",
		"estado": "SP",
		"senha": "segredo1",
		"confirmaSenha": "segredo1"
	}`), &form)
	return form
}

func TestRegister(t *testing.T) {
	ctx := context.TODO()

	t.Run("should create the user and log it in", func(t *testing.T) {
		f := createFixture()

		user, err := f.service.Register(ctx, f.repository, validForm())

		require.Nil(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "1990-05-17", user.Profile.BirthDate)
		assert.False(t, user.EmailVerified)
		assert.False(t, user.PhoneVerified)

		users, _ := f.repository.Users(ctx)
		require.Len(t, users, 1)
		assert.NotEqual(t, "segredo1", users[0].PasswordHash)
		assert.Nil(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("segredo1")))

		session, _ := f.repository.Session(ctx)
		assert.Equal(t, &schema.Session{UserID: "user-1", Email: "Ana@Example.com", Name: "Ana Souza"}, session)

		require.Len(t, f.sender.delivered, 1)
		assert.Equal(t, "ana@example.com", f.sender.delivered[0].Target)
	})

	tests := []struct {
		name  string
		form  func() RegistrationForm
		field string
		rule  string
	}{
		{
			name:  "missing name",
			form:  func() RegistrationForm { form := validForm(); form.Name = "  "; return form },
			field: "nome",
			rule:  "required",
		},
		{
			name:  "invalid cpf",
			form:  func() RegistrationForm { form := validForm(); form.TaxID = "111.111.111-11"; return form },
			field: "cpf",
			rule:  "cpf",
		},
		{
			name:  "invalid cep",
			form:  func() RegistrationForm { form := validForm(); form.PostalCode = "00000-000"; return form },
			field: "cep",
			rule:  "cep",
		},
		{
			name:  "short password",
			form:  func() RegistrationForm { form := validForm(); form.Password = "abc"; form.PasswordConfirmation = "abc"; return form },
			field: "senha",
			rule:  "min",
		},
		{
			name:  "confirmation mismatch",
			form:  func() RegistrationForm { form := validForm(); form.PasswordConfirmation = "segredo2"; return form },
			field: "confirmaSenha",
			rule:  "eqfield",
		},
		{
			name:  "missing birth date",
			form:  func() RegistrationForm { form := validForm(); form.BirthDate.Time = time.Time{}; return form },
			field: "dataNascimento",
			rule:  "required",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := createFixture()

			_, err := f.service.Register(ctx, f.repository, test.form())

			var formError *validation.FormError
			require.True(t, errors.As(err, &formError), "%v", err)
			assert.True(t, formError.Has(test.field, test.rule), "%v", formError)

			users, _ := f.repository.Users(ctx)
			assert.Empty(t, users)
		})
	}

	t.Run("should reject an unknown postal code", func(t *testing.T) {
		f := createFixture()
		f.resolver.err = postal.ErrNotFound

		_, err := f.service.Register(ctx, f.repository, validForm())

		assert.ErrorIs(t, err, postal.ErrNotFound)
	})

	t.Run("should reject a taken email regardless of case", func(t *testing.T) {
		f := createFixture()
		_, err := f.service.Register(ctx, f.repository, validForm())
		require.Nil(t, err)

		form := validForm()
		form.Email = "ANA@EXAMPLE.COM"
		_, err = f.service.Register(ctx, f.repository, form)

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func registered(t *testing.T) *fixture {
	f := createFixture()
	_, err := f.service.Register(context.TODO(), f.repository, validForm())
	require.Nil(t, err)
	return f
}

func TestLoginLogout(t *testing.T) {
	ctx := context.TODO()
	f := registered(t)
	require.Nil(t, f.service.Logout(ctx, f.repository))

	_, err := f.service.Current(ctx, f.repository)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = f.service.Login(ctx, f.repository, "ana@example.com", "wrong!", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(ctx, f.repository, "bruno@example.com", "segredo1", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := f.service.Login(ctx, f.repository, " ANA@example.com ", "segredo1", true)
	assert.Nil(t, err)
	assert.Equal(t, "user-1", user.ID)

	remember, _ := f.repository.Remember(ctx)
	assert.True(t, remember)

	current, err := f.service.Current(ctx, f.repository)
	assert.Nil(t, err)
	assert.Equal(t, user, current)
}

func TestUpdateField(t *testing.T) {
	ctx := context.TODO()

	t.Run("should rename and refresh the session", func(t *testing.T) {
		f := registered(t)

		user, err := f.service.UpdateField(ctx, f.repository, "nome", "Ana Lima")

		assert.Nil(t, err)
		assert.Equal(t, "Ana Lima", user.Name)
		session, _ := f.repository.Session(ctx)
		assert.Equal(t, "Ana Lima", session.Name)
	})

	t.Run("should reset phone verification and send a code", func(t *testing.T) {
		f := registered(t)

		user, err := f.service.UpdateField(ctx, f.repository, "celular", "(21) 99876-5432")

		assert.Nil(t, err)
		assert.False(t, user.PhoneVerified)
		assert.Equal(t, "21998765432", f.sender.delivered[len(f.sender.delivered)-1].Target)
	})

	t.Run("should keep the address as typed", func(t *testing.T) {
		f := registered(t)

		user, err := f.service.UpdateField(ctx, f.repository, "endereco", "Rua A, 10\nCentro")

		assert.Nil(t, err)
		assert.Equal(t, "Rua A, 10\nCentro", user.Profile.FullAddress)
	})

	t.Run("should reject an email used by another user", func(t *testing.T) {
		f := registered(t)
		users, _ := f.repository.Users(ctx)
		users = append(users, schema.User{ID: "user-2", Email: "bruno@example.com"})
		require.Nil(t, f.repository.SaveUsers(ctx, users))

		_, err := f.service.UpdateField(ctx, f.repository, "email", "Bruno@example.com")

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	tests := []struct {
		name  string
		field string
		value string
		err   error
	}{
		{name: "empty", field: "nome", value: "   ", err: ErrEmptyValue},
		{name: "bad email", field: "email", value: "ana@", err: ErrInvalidValue},
		{name: "short phone", field: "celular", value: "1198765", err: ErrInvalidValue},
		{name: "bad date", field: "dataNascimento", value: "17/05/1990", err: ErrInvalidValue},
		{name: "bad gender", field: "genero", value: "x", err: ErrInvalidValue},
		{name: "cpf is not editable", field: "cpf", value: "52998224725", err: ErrUnknownField},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := registered(t)

			_, err := f.service.UpdateField(ctx, f.repository, test.field, test.value)

			assert.ErrorIs(t, err, test.err)
		})
	}

	t.Run("should require a session", func(t *testing.T) {
		f := createFixture()

		_, err := f.service.UpdateField(ctx, f.repository, "nome", "Ana")

		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})
}

func TestSaveProfileAndPhoto(t *testing.T) {
	ctx := context.TODO()
	f := registered(t)

	user, err := f.service.SaveProfile(ctx, f.repository, schema.ProfileData{
		Name:   "Ana S.",
		Email:  "other@example.com",
		TaxID:  "111.444.777-35",
		Gender: "outro",
	})
	assert.Nil(t, err)
	assert.Equal(t, "Ana S.", user.Name)
	assert.Equal(t, "Ana@Example.com", user.Profile.Email)
	assert.Equal(t, "111.444.777-35", user.Profile.TaxID)

	_, err = f.service.SaveProfile(ctx, f.repository, schema.ProfileData{TaxID: "123"})
	assert.ErrorIs(t, err, ErrInvalidValue)

	user, err = f.service.SavePhoto(ctx, f.repository, "data:image/png;base64,AAAA")
	assert.Nil(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", user.Photo)
}

func TestDelete(t *testing.T) {
	ctx := context.TODO()
	f := registered(t)

	assert.ErrorIs(t, f.service.Delete(ctx, f.repository, "nope"), ErrWrongPassword)

	assert.Nil(t, f.service.Delete(ctx, f.repository, "segredo1"))

	users, _ := f.repository.Users(ctx)
	assert.Empty(t, users)
	session, _ := f.repository.Session(ctx)
	assert.Nil(t, session)
}

func TestVerification(t *testing.T) {
	ctx := context.TODO()
	f := registered(t)

	ok, err := f.service.ConfirmVerification(ctx, f.repository, verification.Email, "000000")
	assert.Nil(t, err)
	assert.False(t, ok)

	ok, err = f.service.ConfirmVerification(ctx, f.repository, verification.Email, "123456")
	assert.Nil(t, err)
	assert.True(t, ok)

	user, _ := f.service.Current(ctx, f.repository)
	assert.True(t, user.EmailVerified)

	_, err = f.service.ConfirmVerification(ctx, f.repository, verification.Phone, "123456")
	assert.ErrorIs(t, err, verification.ErrNoChallenge)

	_, err = f.service.ResendVerification(ctx, f.repository, verification.Phone)
	assert.Nil(t, err)

	_, err = f.service.ResendVerification(ctx, f.repository, verification.Phone)
	assert.ErrorIs(t, err, verification.ErrResendCooldown)

	ok, err = f.service.ConfirmVerification(ctx, f.repository, verification.Phone, "123456")
	assert.Nil(t, err)
	assert.True(t, ok)

	user, _ = f.service.Current(ctx, f.repository)
	assert.True(t, user.PhoneVerified)
}

func TestVerificationSharedPhone(t *testing.T) {
	ctx := context.TODO()
	f := registered(t)

	_, err := f.service.ResendVerification(ctx, f.repository, verification.Phone)
	require.Nil(t, err)
	ok, err := f.service.ConfirmVerification(ctx, f.repository, verification.Phone, "123456")
	require.Nil(t, err)
	require.True(t, ok)

	log := zerolog.New(&bytes.Buffer{})
	other := storage.NewRepository(f.engine, "browser-2", &log)

	form := validForm()
	form.Email = "bruno@example.com"
	f.service.NewID = func() string { return "user-2" }
	_, err = f.service.Register(ctx, other, form)
	require.Nil(t, err)

	ok, err = f.service.ConfirmVerification(ctx, other, verification.Phone, "000000")
	assert.ErrorIs(t, err, verification.ErrNoChallenge)
	assert.False(t, ok)

	user, _ := f.service.Current(ctx, other)
	assert.False(t, user.PhoneVerified)

	f.sender.delivered = nil
	_, err = f.service.ResendVerification(ctx, other, verification.Phone)
	require.Nil(t, err)
	require.Len(t, f.sender.delivered, 1)

	ok, err = f.service.ConfirmVerification(ctx, other, verification.Phone, "123456")
	assert.Nil(t, err)
	assert.True(t, ok)

	user, _ = f.service.Current(ctx, other)
	assert.True(t, user.PhoneVerified)
}
