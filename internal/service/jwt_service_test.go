package service

import (
	"errors"
	"testing"
	"time"

	"bandprep/internal/domain"
)

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	user := domain.User{ID: "u1", Email: "u1@example.com"}

	token, err := svc.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "u1" {
		t.Errorf("subject = %q, want u1", claims.Subject)
	}
	if claims.Email != "u1@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("faltan iat/exp")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expiry = %v, want 1h", got)
	}
}

func TestJWTServiceParse_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	parser := NewJWTService("secret-b", time.Hour)

	token, err := issuer.IssueToken(domain.User{ID: "u1", Email: "u1@example.com"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := parser.ParseToken(token); !errors.Is(err, ErrJWTInvalid) {
		t.Errorf("ParseToken = %v, want ErrJWTInvalid", err)
	}
}

func TestJWTServiceParse_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Millisecond)

	token, err := svc.IssueToken(domain.User{ID: "u1", Email: "u1@example.com"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrJWTExpired) {
		t.Errorf("ParseToken = %v, want ErrJWTExpired", err)
	}
}

func TestJWTServiceParse_Garbage(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	for _, token := range []string{"", "   ", "not-a-token", "a.b.c"} {
		if _, err := svc.ParseToken(token); !errors.Is(err, ErrJWTInvalid) {
			t.Errorf("ParseToken(%q) = %v, want ErrJWTInvalid", token, err)
		}
	}
}

func TestJWTServiceIssue_NoSecret(t *testing.T) {
	svc := NewJWTService("", time.Hour)
	if _, err := svc.IssueToken(domain.User{ID: "u1"}); !errors.Is(err, ErrJWTInvalid) {
		t.Errorf("IssueToken sin secret = %v, want ErrJWTInvalid", err)
	}
}
