package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// AuthService issues and validates the session tokens clients present
// when dialing the ingest endpoint.
type AuthService interface {
	GenerateToken(clientName string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type Claims struct {
	ClientName string `json:"client_name"`
	jwt.RegisteredClaims
}

type authService struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a shared-secret HS256 token service.
func NewAuthService(secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (s *authService) GenerateToken(clientName string) (string, error) {
	claims := &Claims{
		ClientName: clientName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
