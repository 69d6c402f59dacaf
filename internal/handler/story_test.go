package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/repository"
)

func TestStoryUpdateEnforcesOwnership(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		authorID   uint64
		missing    bool
		role       string
		wantStatus int
		wantMsg    string
	}{
		{"different author", 99, false, "free", http.StatusForbidden, "not your story"},
		{"vip is not enough", 99, false, "vip", http.StatusForbidden, "not your story"},
		{"unknown story", 0, true, "free", http.StatusNotFound, "story not found"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock := newMockDB(t)
			h := NewStoryHandler(repository.NewStoryRepo(db), nil)

			q := mock.ExpectQuery("SELECT author_id FROM stories")
			if tt.missing {
				q.WillReturnError(sql.ErrNoRows)
			} else {
				q.WillReturnRows(sqlmock.NewRows([]string{"author_id"}).AddRow(tt.authorID))
			}

			e := echo.New()
			req := httptest.NewRequest(http.MethodPut, "/v1/stories/4", strings.NewReader(`{"title":"Rewritten"}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues("4")
			c.Set("user_id", uint64(5))
			c.Set("role", tt.role)

			if err := h.Update(c); err != nil {
				t.Fatalf("Update: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.wantMsg)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}
