// Package auth implements the bearer-token codec: issuing and validating
// signed, time-bound HS256 tokens whose subject claim is the user's email.
// The codec is stateless; the only state it owns is the signing secret and
// lifetime it was constructed with.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhub/taskhub-api/internal/apperr"
)

// minSecretLen is the minimum signing-secret length in bytes (256 bits for
// HS256).
const minSecretLen = 32

// Issuer creates and validates bearer tokens. Construct it once at startup
// with the configured secret and lifetime; it is safe for concurrent use.
type Issuer struct {
	secret   string
	lifetime time.Duration
}

// NewIssuer returns an Issuer over the given secret and token lifetime.
// The secret length is checked lazily at every signing-key derivation, not
// here, so a misconfigured deployment fails loudly on first use rather
// than silently issuing weak tokens.
func NewIssuer(secret string, lifetime time.Duration) *Issuer {
	return &Issuer{secret: secret, lifetime: lifetime}
}

// CheckSecret derives the signing key once, surfacing the configuration
// error early. Main calls this at startup so a weak secret kills the
// process instead of failing the first sign-in.
func (i *Issuer) CheckSecret() error {
	_, err := i.signingKey()
	return err
}

// signingKey derives the HMAC key, rejecting secrets shorter than 256 bits.
func (i *Issuer) signingKey() ([]byte, error) {
	if len(i.secret) < minSecretLen {
		return nil, apperr.New(apperr.KindConfiguration,
			"JWT secret must be at least 256 bits (32 bytes) long")
	}
	return []byte(i.secret), nil
}

// Issue signs a new token for the given subject (the user's email).
// Claims are {sub, iat = now, exp = now + lifetime}.
func (i *Issuer) Issue(subject string) (string, error) {
	if subject == "" {
		return "", apperr.New(apperr.KindValidation, "token subject must not be empty")
	}
	key, err := i.signingKey()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(key)
}

// Validate verifies the token's signature and expiry. Any failure — bad
// signature, malformed token or natural expiry — surfaces as the same
// invalid-token error; callers must treat all of them as equivalent
// rejection.
func (i *Issuer) Validate(token string) error {
	_, err := i.parse(token)
	return err
}

// Subject re-parses the token and returns its subject claim. It propagates
// the same verification failure as Validate when called on a bad token.
func (i *Issuer) Subject(token string) (string, error) {
	claims, err := i.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (i *Issuer) parse(token string) (*jwt.RegisteredClaims, error) {
	key, err := i.signingKey()
	if err != nil {
		return nil, err
	}
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.KindInvalidToken, "unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !tok.Valid {
		return nil, apperr.Wrap(apperr.KindInvalidToken, "invalid token", err)
	}
	return claims, nil
}
