package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"biotrack/internal/middleware"
)

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) bool
	NewAccessToken(accountID int64, role string) (token string, expiresAt time.Time, err error)
}

type authService struct {
	jwtKey    []byte
	accessTTL time.Duration
}

func NewAuthService(jwtKey []byte, accessTTL time.Duration) AuthService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &authService{jwtKey: jwtKey, accessTTL: accessTTL}
}

func (s *authService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(h), nil
}

func (s *authService) CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewAccessToken — короткоживущий HS256 JWT; refresh живёт отдельно в БД.
func (s *authService) NewAccessToken(accountID int64, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.accessTTL)
	claims := &middleware.Claims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}
