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

func TestBookmarkAddRejectsDuplicate(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	h := NewBookmarkHandler(
		repository.NewBookmarkRepo(db),
		repository.NewStoryRepo(db),
		repository.NewProfileRepo(db),
		false,
	)
	now := time.Now()
	mock.ExpectQuery("FROM stories WHERE id=").
		WillReturnRows(sqlmock.NewRows(searchStoryCols).
			AddRow([]driver.Value{uint64(8), uint64(2), "Gate of Sands", "", "", "", "", "", "",
				false, false, true, false, 0.0, 0, now, now}...))
	mock.ExpectQuery("FROM bookmarks WHERE user_id=").
		WithArgs(5, 8).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookmarks", strings.NewReader(`{"story_id":8}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(5))

	if err := h.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Already bookmarked") {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookmarkAddRequiresStoryID(t *testing.T) {
	t.Parallel()

	h := NewBookmarkHandler(nil, nil, nil, false)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookmarks", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Add(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "story_id required") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
