// Package auth provides JWT-based admin authentication for the HTTP API.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 12 * time.Hour

// AdminClaims is the payload of an admin token.
type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates admin tokens against a single
// environment-configured admin account.
type Authenticator struct {
	secret       []byte
	adminEmail   string
	passwordHash string
}

// NewAuthenticator creates an authenticator from the signing secret and the
// admin credentials (bcrypt hash, never plaintext).
func NewAuthenticator(secret []byte, adminEmail, passwordHash string) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("secret cannot be empty")
	}
	if adminEmail == "" || passwordHash == "" {
		return nil, fmt.Errorf("admin credentials cannot be empty")
	}
	return &Authenticator{
		secret:       secret,
		adminEmail:   strings.ToLower(adminEmail),
		passwordHash: passwordHash,
	}, nil
}

// Login verifies the credentials and issues a signed token.
// Email comparison is case-insensitive; the password check is bcrypt.
func (a *Authenticator) Login(email, password string) (string, error) {
	if strings.ToLower(strings.TrimSpace(email)) != a.adminEmail {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := AdminClaims{
		Email: a.adminEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
func (a *Authenticator) Validate(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword produces the bcrypt hash stored in FW_ADMIN_PASSWORD_HASH.
// Used by provisioning tooling, not the request path.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
