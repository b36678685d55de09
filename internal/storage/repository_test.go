package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"bitbucket.org/sportshop/storefront/internal/schema"
	"github.com/go-redis/redismock/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func createRepository(engine Engine, clientID string) (*Repository, *bytes.Buffer) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	return NewRepository(engine, clientID, &log), out
}

func TestRepositoryDefaults(t *testing.T) {
	repository, _ := createRepository(NewMemoryEngine(), "browser-1")
	ctx := context.TODO()

	session, err := repository.Session(ctx)
	assert.Nil(t, err)
	assert.Nil(t, session)

	users, err := repository.Users(ctx)
	assert.Nil(t, err)
	assert.Equal(t, []schema.User{}, users)

	cart, err := repository.Cart(ctx)
	assert.Nil(t, err)
	assert.Equal(t, schema.Cart{Lines: []schema.CartLine{}, InstallmentCount: 12}, cart)

	favorites, err := repository.Favorites(ctx)
	assert.Nil(t, err)
	assert.Equal(t, []int{}, favorites)

	notifications, stored, err := repository.Notifications(ctx)
	assert.Nil(t, err)
	assert.False(t, stored)
	assert.Empty(t, notifications)

	theme, err := repository.Theme(ctx)
	assert.Nil(t, err)
	assert.Equal(t, schema.ThemeAuto, theme)

	enabled, err := repository.NotificationsEnabled(ctx)
	assert.Nil(t, err)
	assert.True(t, enabled)

	remember, err := repository.Remember(ctx)
	assert.Nil(t, err)
	assert.False(t, remember)
}

func TestRepositoryRoundTrip(t *testing.T) {
	repository, _ := createRepository(NewMemoryEngine(), "browser-1")
	ctx := context.TODO()

	cart := schema.Cart{
		Lines: []schema.CartLine{
			{ProductID: 1, Name: "Camisa", Price: decimal.RequireFromString("149.90"), Size: "M", Quantity: 2},
		},
		InstallmentCount: 3,
	}

	assert.Nil(t, repository.SaveCart(ctx, cart))
	assert.Nil(t, repository.SaveFavorites(ctx, []int{3, 1}))
	assert.Nil(t, repository.SaveTheme(ctx, schema.ThemeDark))
	assert.Nil(t, repository.SaveNotificationsEnabled(ctx, false))
	assert.Nil(t, repository.SaveSession(ctx, schema.Session{UserID: "u-1", Email: "ana@example.com", Name: "Ana"}))
	assert.Nil(t, repository.SaveRemember(ctx))

	storedCart, err := repository.Cart(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 3, storedCart.InstallmentCount)
	assert.True(t, cart.Lines[0].Price.Equal(storedCart.Lines[0].Price))
	assert.Equal(t, "M", storedCart.Lines[0].Size)

	favorites, _ := repository.Favorites(ctx)
	assert.Equal(t, []int{3, 1}, favorites)

	theme, _ := repository.Theme(ctx)
	assert.Equal(t, schema.ThemeDark, theme)

	enabled, _ := repository.NotificationsEnabled(ctx)
	assert.False(t, enabled)

	session, _ := repository.Session(ctx)
	assert.Equal(t, &schema.Session{UserID: "u-1", Email: "ana@example.com", Name: "Ana"}, session)

	remember, _ := repository.Remember(ctx)
	assert.True(t, remember)

	assert.Nil(t, repository.ClearSession(ctx))
	assert.Nil(t, repository.ClearRemember(ctx))

	session, _ = repository.Session(ctx)
	assert.Nil(t, session)
	remember, _ = repository.Remember(ctx)
	assert.False(t, remember)
}

func TestRepositoryNamespaces(t *testing.T) {
	engine := NewMemoryEngine()
	first, _ := createRepository(engine, "browser-1")
	second, _ := createRepository(engine, "browser-2")
	ctx := context.TODO()

	assert.Nil(t, first.SaveFavorites(ctx, []int{7}))
	assert.Nil(t, first.SaveUsers(ctx, []schema.User{{ID: "u-1", Email: "ana@example.com"}}))

	favorites, _ := second.Favorites(ctx)
	assert.Equal(t, []int{}, favorites)

	users, _ := second.Users(ctx)
	assert.Len(t, users, 1)
	assert.Equal(t, "u-1", users[0].ID)
}

func TestRepositoryMalformedSnapshots(t *testing.T) {
	engine := NewMemoryEngine()
	repository, out := createRepository(engine, "browser-1")
	ctx := context.TODO()

	tests := []struct {
		name  string
		key   string
		raw   string
		check func(t *testing.T)
	}{
		{
			name: "cart",
			key:  "client:browser-1:sportshop_cart",
			raw:  "{not json",
			check: func(t *testing.T) {
				cart, err := repository.Cart(ctx)
				assert.Nil(t, err)
				assert.Empty(t, cart.Lines)
				assert.Equal(t, 12, cart.InstallmentCount)
			},
		},
		{
			name: "favorites",
			key:  "client:browser-1:sportshop_favorites",
			raw:  "{not json",
			check: func(t *testing.T) {
				favorites, err := repository.Favorites(ctx)
				assert.Nil(t, err)
				assert.Equal(t, []int{}, favorites)
			},
		},
		{
			name: "users",
			key:  "sportshop_users",
			raw:  "{not json",
			check: func(t *testing.T) {
				users, err := repository.Users(ctx)
				assert.Nil(t, err)
				assert.Equal(t, []schema.User{}, users)
			},
		},
		{
			name: "theme",
			key:  "client:browser-1:sportshop_theme",
			raw:  "{not json",
			check: func(t *testing.T) {
				theme, err := repository.Theme(ctx)
				assert.Nil(t, err)
				assert.Equal(t, schema.ThemeAuto, theme)
			},
		},
		{
			name: "users with a mistyped field",
			key:  "sportshop_users",
			raw:  `[{"id":"u1","nome":"Ana","email":"ana@example.com","emailVerified":"yes"}]`,
			check: func(t *testing.T) {
				users, err := repository.Users(ctx)
				assert.Nil(t, err)
				assert.Equal(t, []schema.User{}, users)
			},
		},
		{
			name: "cart with a mistyped quantity",
			key:  "client:browser-1:sportshop_cart",
			raw:  `{"lines":[{"id":1,"name":"Bola","quantity":"two"}],"installmentCount":3}`,
			check: func(t *testing.T) {
				cart, err := repository.Cart(ctx)
				assert.Nil(t, err)
				assert.Empty(t, cart.Lines)
				assert.Equal(t, 12, cart.InstallmentCount)
			},
		},
		{
			name: "favorites with a mistyped id",
			key:  "client:browser-1:sportshop_favorites",
			raw:  `[1,"two"]`,
			check: func(t *testing.T) {
				favorites, err := repository.Favorites(ctx)
				assert.Nil(t, err)
				assert.Equal(t, []int{}, favorites)
			},
		},
		{
			name: "session with a mistyped field",
			key:  "client:browser-1:sportshop_current_user",
			raw:  `{"userId":"u1","email":5}`,
			check: func(t *testing.T) {
				session, err := repository.Session(ctx)
				assert.Nil(t, err)
				assert.Nil(t, session)
			},
		},
		{
			name: "remember flag as text",
			key:  "client:browser-1:sportshop_remember",
			raw:  `"yes"`,
			check: func(t *testing.T) {
				remember, err := repository.Remember(ctx)
				assert.Nil(t, err)
				assert.False(t, remember)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out.Reset()
			assert.Nil(t, engine.Set(ctx, test.key, []byte(test.raw)))

			test.check(t)

			assert.Contains(t, out.String(), "Malformed snapshot")
		})
	}

	t.Run("unknown theme falls back to auto", func(t *testing.T) {
		assert.Nil(t, engine.Set(ctx, "client:browser-1:sportshop_theme", []byte(`"sepia"`)))

		theme, err := repository.Theme(ctx)
		assert.Nil(t, err)
		assert.Equal(t, schema.ThemeAuto, theme)
	})
}

func TestRedisEngine(t *testing.T) {
	redisClient, mock := redismock.NewClientMock()
	repository, _ := createRepository(NewRedisEngine(redisClient), "browser-1")
	ctx := context.TODO()

	t.Run("should write snapshots without expiry", func(t *testing.T) {
		mock.ExpectSet("client:browser-1:sportshop_favorites", []byte("[1,2]"), 0).SetVal("OK")

		assert.Nil(t, repository.SaveFavorites(ctx, []int{1, 2}))
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("should read snapshots", func(t *testing.T) {
		mock.ExpectGet("client:browser-1:sportshop_favorites").SetVal("[4]")

		favorites, err := repository.Favorites(ctx)
		assert.Nil(t, err)
		assert.Equal(t, []int{4}, favorites)
	})

	t.Run("should treat a missing key as default", func(t *testing.T) {
		mock.ExpectGet("client:browser-1:sportshop_theme").RedisNil()

		theme, err := repository.Theme(ctx)
		assert.Nil(t, err)
		assert.Equal(t, schema.ThemeAuto, theme)
	})

	t.Run("should surface redis failures", func(t *testing.T) {
		mock.ExpectGet("client:browser-1:sportshop_cart").SetErr(errors.New("connection refused"))

		_, err := repository.Cart(ctx)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("should delete the session", func(t *testing.T) {
		mock.ExpectDel("client:browser-1:sportshop_current_user").SetVal(1)

		assert.Nil(t, repository.ClearSession(ctx))
		assert.Nil(t, mock.ExpectationsWereMet())
	})
}
