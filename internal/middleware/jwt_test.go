package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/utils"
)

const testSecret = "unit-test-secret"

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, reached
}

func TestJWTAuth(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewAccessToken(testSecret, 7, "vip", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	wrong, err := utils.NewAccessToken("another-secret", 7, "vip", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantReached bool
	}{
		{"valid token", "Bearer " + tok.Token, http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"not bearer", "Basic abc123", http.StatusUnauthorized, false},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, false},
		{"wrong secret", "Bearer " + wrong.Token, http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, reached := invoke(t, JWTAuth(testSecret), tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if reached != tt.wantReached {
				t.Fatalf("reached = %v, want %v", reached, tt.wantReached)
			}
		})
	}
}

func TestJWTAuthStoresClaims(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewAccessToken(testSecret, 42, "admin", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		if uid, _ := c.Get("user_id").(uint64); uid != 42 {
			t.Errorf("user_id = %v, want 42", c.Get("user_id"))
		}
		if role, _ := c.Get("role").(string); role != "admin" {
			t.Errorf("role = %v, want admin", c.Get("role"))
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestOptionalJWT(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewAccessToken(testSecret, 9, "free", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantReached bool
	}{
		{"anonymous passes through", "", http.StatusOK, true},
		{"valid token accepted", "Bearer " + tok.Token, http.StatusOK, true},
		{"bad token still rejected", "Bearer not.a.jwt", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, reached := invoke(t, OptionalJWT(testSecret), tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if reached != tt.wantReached {
				t.Fatalf("reached = %v, want %v", reached, tt.wantReached)
			}
		})
	}
}
