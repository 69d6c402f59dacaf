package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		storyID string
		body    string
		wantMsg string
	}{
		{"invalid story id", "abc", `{"rating":3}`, "invalid story id"},
		{"rating too low", "1", `{"rating":0}`, "between 1 and 5"},
		{"rating too high", "1", `{"rating":6}`, "between 1 and 5"},
		{"malformed body", "1", `{"rating":`, "invalid body"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewRatingHandler(nil, nil, nil, false)
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.storyID)

			if err := h.Rate(c); err != nil {
				t.Fatalf("Rate: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Fatalf("body %q does not mention %q", rec.Body.String(), tt.wantMsg)
			}
		})
	}
}
