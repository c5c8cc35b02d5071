package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewAuthenticator([]byte("0123456789abcdef0123456789abcdef"), "Admin@Example.com", hash)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestLoginAndValidate(t *testing.T) {
	a := testAuthenticator(t)

	token, err := a.Login("admin@example.com", "correct horse battery staple")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	claims, err := a.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("claims email = %q", claims.Email)
	}
}

func TestLogin_Failures(t *testing.T) {
	a := testAuthenticator(t)

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Login("admin@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.Login("other@example.com", "correct horse battery staple")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("email case insensitive", func(t *testing.T) {
		if _, err := a.Login("ADMIN@EXAMPLE.COM", "correct horse battery staple"); err != nil {
			t.Errorf("Login with uppercase email = %v, want nil", err)
		}
	})
}

func TestValidate_Failures(t *testing.T) {
	a := testAuthenticator(t)

	t.Run("garbage token", func(t *testing.T) {
		if _, err := a.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewAuthenticator([]byte("ffffffffffffffffffffffffffffffff"), "admin@example.com", a.passwordHash)
		if err != nil {
			t.Fatal(err)
		}
		token, err := other.Login("admin@example.com", "correct horse battery staple")
		if err == nil {
			if _, err := a.Validate(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate with foreign token = %v, want ErrInvalidToken", err)
			}
		}
	})

	t.Run("expired token", func(t *testing.T) {
		claims := AdminClaims{
			Email: "admin@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString(a.secret)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := a.Validate(signed); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate expired = %v, want ErrInvalidToken", err)
		}
	})
}
