package auth

import (
	"time"

	"github.com/golang-jwt/jwt"
)

const tokenLifetime = 24 * time.Hour

type Claims struct {
	UserID uint `json:"user_id"`
	jwt.StandardClaims
}

// Authenticator signs and validates session tokens.
type Authenticator struct {
	key []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{key: []byte(secret)}
}

func (a *Authenticator) GenerateToken(userID uint) (string, error) {
	expirationTime := time.Now().Add(tokenLifetime)
	claims := &Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(a.key)
}

func (a *Authenticator) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return a.key, nil
	})

	if err != nil {
		return nil, err
	}

	if !tkn.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return claims, nil
}
