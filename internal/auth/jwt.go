package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTMaker struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTMaker(secret string, ttl time.Duration) *JWTMaker {
	return &JWTMaker{secret: []byte(secret), ttl: ttl}
}

func (m *JWTMaker) GenerateToken(userID uuid.UUID, email string, role model.UserRole) (string, *UserClaims, error) {
	claims, err := NewUserClaims(userID, email, role, m.ttl)
	if err != nil {
		return "", nil, err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

func (m *JWTMaker) VerifyToken(tokenStr string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if !claims.Role.Valid() {
		return nil, errors.New("token carries an unknown role")
	}
	return claims, nil
}
