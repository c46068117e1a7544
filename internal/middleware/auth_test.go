package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"converse/internal/domain"
	"converse/internal/domain/models"
	"converse/internal/httputil"

	"github.com/golang-jwt/jwt/v5"
)

type stubVerifier struct {
	userID string
	err    error
}

func (v *stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: v.userID},
	}, nil
}

func echoUserID() (http.Handler, *string) {
	var got string
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = httputil.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}), &got
}

func TestAuth_ValidToken(t *testing.T) {
	next, got := echoUserID()
	handler := Auth(&stubVerifier{userID: "user-123"})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *got != "user-123" {
		t.Errorf("user id in context = %q, want %q", *got, "user-123")
	}
}

func TestAuth_NoHeaderPassesThroughAnonymously(t *testing.T) {
	next, got := echoUserID()
	handler := Auth(&stubVerifier{userID: "user-123"})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *got != "" {
		t.Errorf("user id in context = %q, want empty", *got)
	}
}

func TestAuth_NilVerifierPassesThrough(t *testing.T) {
	next, _ := echoUserID()
	handler := Auth(nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	next, _ := echoUserID()
	handler := Auth(&stubVerifier{err: domain.ErrUnauthorized})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	next, _ := echoUserID()
	handler := Auth(&stubVerifier{userID: "user-123"})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
