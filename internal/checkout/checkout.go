package checkout

import (
	"errors"
	"fmt"
	"time"

	"bitbucket.org/sportshop/storefront/internal/cart"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTTL = 30 * time.Minute
	issuer   = "storefront"
)

var (
	ErrInvalidToken = errors.New("invalid checkout token")
	ErrEmptySecret  = errors.New("checkout secret is empty")
)

type handOffClaims struct {
	ClientID string       `json:"clientId"`
	Summary  cart.Summary `json:"summary"`
	jwt.RegisteredClaims
}

// HandOff is what the checkout page reads back from a token.
type HandOff struct {
	ClientID  string       `json:"clientId"`
	Summary   cart.Summary `json:"summary"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Signer issues and verifies HS256 hand-off tokens.
type Signer struct {
	secret []byte
	Now    func() time.Time
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret), Now: time.Now}, nil
}

func (s *Signer) Sign(clientID string, summary cart.Summary) (string, time.Time, error) {
	now := s.Now()
	expiresAt := now.Add(TokenTTL)

	claims := handOffClaims{
		ClientID: clientID,
		Summary:  summary,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing hand-off: %w", err)
	}

	return token, expiresAt, nil
}

func (s *Signer) Verify(raw string) (HandOff, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &handOffClaims{}

	token, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return HandOff{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Issuer != issuer {
		return HandOff{}, ErrInvalidToken
	}

	return HandOff{
		ClientID:  claims.ClientID,
		Summary:   claims.Summary,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
