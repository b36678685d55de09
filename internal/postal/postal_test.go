package postal

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/tools/caching"
	"bitbucket.org/sportshop/storefront/internal/tools/client"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

const knownAddressBody = `{
  "cep": "01001-000",
  "logradouro": "Praça da Sé",
  "complemento": "lado ímpar",
  "bairro": "Sé",
  "localidade": "São Paulo",
  "uf": "SP",
  "ibge": "3550308"
}`

func TestResolve(t *testing.T) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	var handlerFunc http.HandlerFunc
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerFunc(w, r)
	}))
	defer testServer.Close()

	tests := []struct {
		name            string
		code            string
		handler         http.HandlerFunc
		expected        schema.Address
		expectedErr     error
		expectedRequest string
	}{
		{
			name: "resolves a known code",
			code: "01001-000",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(knownAddressBody))
			},
			expected: schema.Address{
				PostalCode: "01001000",
				Street:     "Praça da Sé",
				Complement: "lado ímpar",
				District:   "Sé",
				City:       "São Paulo",
				State:      "SP",
			},
			expectedRequest: "/ws/01001000/json/",
		},
		{
			name: "reports not found",
			code: "99999999",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"erro": true}`))
			},
			expectedErr:     ErrNotFound,
			expectedRequest: "/ws/99999999/json/",
		},
		{
			name: "reports not found sent as string",
			code: "99999998",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"erro": "true"}`))
			},
			expectedErr:     ErrNotFound,
			expectedRequest: "/ws/99999998/json/",
		},
		{
			name: "fails on server errors",
			code: "01310100",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedErr:     ErrLookupFailed,
			expectedRequest: "/ws/01310100/json/",
		},
		{
			name: "fails on broken json",
			code: "01310200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
			expectedErr:     ErrLookupFailed,
			expectedRequest: "/ws/01310200/json/",
		},
		{
			name:        "rejects a malformed code without calling",
			code:        "0100",
			expectedErr: ErrInvalidPostalCode,
		},
		{
			name:        "rejects the zero code without calling",
			code:        "00000-000",
			expectedErr: ErrInvalidPostalCode,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			called := false
			handlerFunc = func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, test.expectedRequest, r.URL.Path)
				test.handler(w, r)
			}

			resolver := NewClient(&log, nil, client.WithBaseURL(testServer.URL))
			address, err := resolver.Resolve(context.TODO(), test.code)

			assert.Equal(t, test.expectedRequest != "", called)
			if test.expectedErr != nil {
				assert.True(t, errors.Is(err, test.expectedErr), "got %v", err)
				assert.Equal(t, schema.Address{}, address)
				return
			}

			assert.Nil(t, err)
			assert.Equal(t, test.expected, address)
		})
	}
}

func TestResolveTimeout(t *testing.T) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(knownAddressBody))
	}))
	defer testServer.Close()

	resolver := NewClient(&log, nil, client.WithBaseURL(testServer.URL), client.WithTimeout(5*time.Millisecond))
	_, err := resolver.Resolve(context.TODO(), "01001000")

	assert.True(t, errors.Is(err, ErrLookupFailed))
}

func TestResolveCache(t *testing.T) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	calls := 0
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/ws/99999999/json/" {
			w.Write([]byte(`{"erro": true}`))
			return
		}
		w.Write([]byte(knownAddressBody))
	}))
	defer testServer.Close()

	cacher := caching.NewMemoryCache(cache.New(time.Hour, 0), "postal:")
	resolver := NewClient(&log, cacher, client.WithBaseURL(testServer.URL))

	first, err := resolver.Resolve(context.TODO(), "01001-000")
	assert.Nil(t, err)

	second, err := resolver.Resolve(context.TODO(), "01001000")
	assert.Nil(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	t.Run("should not cache failures", func(t *testing.T) {
		_, err := resolver.Resolve(context.TODO(), "99999999")
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = resolver.Resolve(context.TODO(), "99999999")
		assert.True(t, errors.Is(err, ErrNotFound))

		assert.Equal(t, 3, calls)
	})
}
