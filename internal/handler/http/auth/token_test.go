package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"clinic-reviews/internal/handler/http/auth"
	authservice "clinic-reviews/internal/service/auth"
)

const (
	testAdminUser     = "admin@example.com"
	testAdminPassword = "correct-horse-battery"
)

func tokenHandler() http.HandlerFunc {
	provider := auth.NewEnvAdminProvider(12)
	return auth.TokenHandler(authservice.NewAuthService(provider))
}

func setAuthEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_USER", testAdminUser)
	t.Setenv("ADMIN_USER_PASSWORD", testAdminPassword)
	t.Setenv("JWT_SECRET", testSecret)
}

func TestTokenHandler_Success(t *testing.T) {
	setAuthEnv(t)
	handler := tokenHandler()

	body := strings.NewReader(`{"email": "admin@example.com", "password": "correct-horse-battery"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("token is empty")
	}

	tok, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"] != testAdminUser {
		t.Errorf("sub = %v, want %q", claims["sub"], testAdminUser)
	}
	if claims["role"] != auth.RoleAdmin {
		t.Errorf("role = %v, want %q", claims["role"], auth.RoleAdmin)
	}
	if ver, ok := claims["ver"].(float64); !ok || int64(ver) != 1 {
		t.Errorf("ver = %v, want 1", claims["ver"])
	}
}

func TestTokenHandler_WrongPassword(t *testing.T) {
	setAuthEnv(t)
	handler := tokenHandler()

	body := strings.NewReader(`{"email": "admin@example.com", "password": "wrong-password-here"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTokenHandler_UnknownUser(t *testing.T) {
	setAuthEnv(t)
	handler := tokenHandler()

	body := strings.NewReader(`{"email": "intruder@example.com", "password": "correct-horse-battery"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTokenHandler_MalformedBody(t *testing.T) {
	setAuthEnv(t)
	handler := tokenHandler()

	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTokenHandler_IssuedTokenPassesAuthz(t *testing.T) {
	setAuthEnv(t)
	handler := tokenHandler()

	body := strings.NewReader(`{"email": "admin@example.com", "password": "correct-horse-battery"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("token issuance failed: %d", rec.Code)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	protected, called := wrap(t)
	adminReq := httptest.NewRequest(http.MethodGet, "/admin/blog-posts/unmatched", nil)
	adminReq.Header.Set("Authorization", "Bearer "+resp.Token)
	adminRec := httptest.NewRecorder()
	protected.ServeHTTP(adminRec, adminReq)

	if adminRec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", adminRec.Code, adminRec.Body.String())
	}
	if !*called {
		t.Fatal("issued token must authorize admin routes")
	}
}
