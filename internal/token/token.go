// Package token issues and verifies the signed bearer credential that binds
// a user identity to subsequent requests. Claims carry only the user id and
// email; everything else (role, ownership) is re-read live per request.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalid = errors.New("token: invalid or expired token")

type Claims struct {
	UserID string
	Email  string
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) Issue(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"uid":   userID,
		"email": email,
		"exp":   time.Now().Add(m.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func (m *Manager) Verify(tokenString string) (Claims, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalid
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}
	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return Claims{}, ErrInvalid
	}
	email, _ := claims["email"].(string)

	return Claims{UserID: uid, Email: email}, nil
}
