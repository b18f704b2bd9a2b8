package utils

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "royal-dine"

// SessionClaims identifies a guest who proved control of an email via OTP.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func CreateSessionToken(secret []byte, email string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("session secret is empty")
	}
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseSessionToken(secret []byte, tokenStr string) (*SessionClaims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(*SessionClaims)
	if !ok || !t.Valid || claims.Email == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
