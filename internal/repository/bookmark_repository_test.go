package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestBookmarkCreateRejectsDuplicate(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewBookmarkRepo(db)

	// The existence pre-check short-circuits; no INSERT may follow.
	mock.ExpectQuery("FROM bookmarks WHERE user_id=").
		WithArgs(5, 8).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(1))

	if _, err := repo.Create(context.Background(), 5, 8); err != ErrConflict {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookmarkCreateFirstTime(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewBookmarkRepo(db)
	now := time.Now()

	mock.ExpectQuery("FROM bookmarks WHERE user_id=").
		WithArgs(5, 8).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(0))
	mock.ExpectExec("INSERT INTO bookmarks").
		WithArgs(5, 8).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery("FROM bookmarks WHERE id=").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "story_id", "created_at"}).
			AddRow(2, 5, 8, now))

	b, err := repo.Create(context.Background(), 5, 8)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID != 2 || b.StoryID != 8 {
		t.Fatalf("got id=%d story=%d, want id=2 story=8", b.ID, b.StoryID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
