package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const AccessCookieName = "accessToken"

var ErrInvalidToken = errors.New("invalid access token")

// AccessClaims is issued by the identity provider; the shop only verifies it.
type AccessClaims struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

func NewAccessToken(claims AccessClaims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return accessSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Claims builds a token body valid for ttl, used by dev tooling and tests.
func Claims(subject, email, role string, ttl time.Duration) AccessClaims {
	now := time.Now()
	return AccessClaims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
