// Package auth issues and verifies HS256 tokens configured by the auth preset
// (JWT_SECRET and JWT_EXPIRATION).
package auth

import (
	"time"

	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Issuer signs and verifies tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer validates s and returns an issuer for it.
func NewIssuer(s preset.AuthSettings) (*Issuer, error) {
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid auth settings")
	}
	ttl, err := s.TTL()
	if err != nil {
		return nil, err
	}
	return &Issuer{secret: []byte(s.Secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue returns a signed token for subject that expires after TTL.
func (i *Issuer) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
func (i *Issuer) Verify(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
