package usecases

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"infobot/internal/config"
)

// Auth issues admin API tokens for the single configured operator.
// The password hash is computed once at startup; plaintext is never
// kept around.
type Auth struct {
	username     string
	passwordHash []byte
	jwtSecret    []byte
}

func NewAuth(cfg config.Config) (*Auth, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth: JWT secret is required")
	}
	if cfg.AdminPassword == "" {
		return nil, errors.New("auth: admin password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash admin password: %w", err)
	}

	return &Auth{
		username:     cfg.AdminUsername,
		passwordHash: hash,
		jwtSecret:    []byte(cfg.JWTSecret),
	}, nil
}

// Login checks credentials and returns a signed token valid for 24h.
func (a *Auth) Login(username, password string) (string, error) {
	if username != a.username {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})

	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
