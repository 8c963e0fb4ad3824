package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bandprep/internal/domain"
	"bandprep/internal/service"
)

func newMiddlewareRouter(jwtSvc *service.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(jwtSvc), func(c *gin.Context) {
		claims, ok := GetAuthClaims(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": claims.Subject, "email": claims.Email})
	})
	return r
}

func doProtected(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	r := newMiddlewareRouter(service.NewJWTService("secret", time.Hour))

	if w := doProtected(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	r := newMiddlewareRouter(service.NewJWTService("secret", time.Hour))

	for _, header := range []string{"Token abc", "Bearer", "bearer"} {
		if w := doProtected(r, header); w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	r := newMiddlewareRouter(service.NewJWTService("secret", time.Hour))

	if w := doProtected(r, "Bearer not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthMiddleware_WrongSecret(t *testing.T) {
	issuer := service.NewJWTService("secret-a", time.Hour)
	token, err := issuer.IssueToken(domain.User{ID: "u1", Email: "u1@example.com"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	r := newMiddlewareRouter(service.NewJWTService("secret-b", time.Hour))
	if w := doProtected(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", time.Hour)
	token, err := jwtSvc.IssueToken(domain.User{ID: "u1", Email: "u1@example.com"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	r := newMiddlewareRouter(jwtSvc)
	w := doProtected(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"sub":"u1"`) || !strings.Contains(body, `"email":"u1@example.com"`) {
		t.Errorf("claims inesperados: %s", body)
	}
}
