package handler

import (
	"database/sql"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
)

func newTestContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

// newMockDB backs the concrete repositories with sqlmock so handler
// tests can drive full request flows without a MySQL server.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		param  string
		wantID uint64
		wantOK bool
	}{
		{"valid", "17", 17, true},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"not a number", "abc", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestContext("/")
			c.SetParamNames("id")
			c.SetParamValues(tt.param)
			id, ok := parseID(c, "id")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Fatalf("id = %d, want %d", id, tt.wantID)
			}
		})
	}
}

func TestParseLimitOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		def        int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/", 20, 20, 0},
		{"explicit", "/?limit=5&offset=10", 20, 5, 10},
		{"capped at 100", "/?limit=500", 20, 100, 0},
		{"negative ignored", "/?limit=-1&offset=-2", 20, 20, 0},
		{"garbage ignored", "/?limit=abc&offset=xyz", 20, 20, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			limit, offset := parseLimitOffset(newTestContext(tt.target), tt.def)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Fatalf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestAverageOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []int
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []int{5}, 5},
		{"mixed", []int{1, 2, 3, 4, 5}, 3},
		{"fractional", []int{4, 5}, 4.5},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := averageOf(tt.values); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("averageOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentUserID(t *testing.T) {
	t.Parallel()

	c := newTestContext("/")
	if got := currentUserID(c); got != 0 {
		t.Fatalf("unauthenticated user id = %d, want 0", got)
	}
	c.Set("user_id", uint64(11))
	if got := currentUserID(c); got != 11 {
		t.Fatalf("user id = %d, want 11", got)
	}
}
