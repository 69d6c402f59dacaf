package handler

import (
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/repository"
)

var searchStoryCols = []string{
	"id", "author_id", "title", "description", "content", "cover_image",
	"pdf_url", "placement", "genre", "is_premium", "is_short_story",
	"is_published", "is_featured", "average_rating", "rating_count",
	"created_at", "updated_at",
}

var searchComicCols = []string{
	"id", "author_id", "title", "description", "cover_url",
	"is_premium", "is_published", "is_featured", "created_at", "updated_at",
}

func searchRequest(t *testing.T, h *SearchHandler, target string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	if err := h.Search(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Search: %v", err)
	}
	return rec
}

func TestSearchReturnsEveryKind(t *testing.T) {
	t.Parallel()

	// type=all and an omitted type behave identically: one response
	// carrying stories, comics and users.
	for _, kind := range []string{"all", ""} {
		kind := kind
		name := kind
		if name == "" {
			name = "type omitted"
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db, mock := newMockDB(t)
			h := NewSearchHandler(
				repository.NewStoryRepo(db),
				repository.NewComicRepo(db),
				repository.NewProfileRepo(db),
			)
			now := time.Now()
			mock.ExpectQuery("FROM stories WHERE is_published=TRUE AND").
				WillReturnRows(sqlmock.NewRows(searchStoryCols).
					AddRow([]driver.Value{uint64(1), uint64(2), "The Dragon Gate", "", "", "", "", "", "",
						false, false, true, false, 0.0, 0, now, now}...))
			mock.ExpectQuery("FROM comics WHERE is_published=TRUE AND").
				WillReturnRows(sqlmock.NewRows(searchComicCols))
			mock.ExpectQuery("FROM profiles WHERE LOWER").
				WillReturnRows(sqlmock.NewRows([]string{"id", "username", "full_name", "avatar_url", "bio"}))

			target := "/v1/search?q=dragon"
			if kind != "" {
				target += "&type=" + kind
			}
			rec := searchRequest(t, h, target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			for _, want := range []string{`"stories"`, `"comics"`, `"users"`, "The Dragon Gate"} {
				if !strings.Contains(rec.Body.String(), want) {
					t.Fatalf("body missing %s: %q", want, rec.Body.String())
				}
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestSearchNarrowsToOneKind(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	h := NewSearchHandler(
		repository.NewStoryRepo(db),
		repository.NewComicRepo(db),
		repository.NewProfileRepo(db),
	)
	mock.ExpectQuery("FROM profiles WHERE LOWER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "full_name", "avatar_url", "bio"}).
			AddRow(7, "laila", "Laila Writes", "", ""))

	rec := searchRequest(t, h, "/v1/search?q=laila&type=users")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"users"`) {
		t.Fatalf("body missing users: %q", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), `"stories"`) {
		t.Fatalf("type=users leaked stories: %q", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		wantMsg string
	}{
		{"missing query", "/v1/search", "q required"},
		{"unknown type", "/v1/search?q=dragon&type=books", "type must be stories, comics or users"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewSearchHandler(nil, nil, nil)
			rec := searchRequest(t, h, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.wantMsg)
			}
		})
	}
}
