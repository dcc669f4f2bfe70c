package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload. It is everything a verified token
// asserts about the caller; there is no server-side session behind it.
type Claims struct {
	UserID  int    `json:"id"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role"`
	StaffID string `json:"staffId,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token carrying the given claims, valid for ttl from now.
func Issue(claims Claims, key string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
}

// Parse validates a token's signature and expiry and returns its claims.
// Malformed, forged and expired tokens all come back as a plain error; the
// caller is expected to collapse them into one invalid result.
func Parse(tokenStr, key string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return *claims, nil
}
