package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var storyRowCols = []string{
	"id", "author_id", "title", "description", "content", "cover_image",
	"pdf_url", "placement", "genre", "is_premium", "is_short_story",
	"is_published", "is_featured", "average_rating", "rating_count",
	"created_at", "updated_at",
}

func storyRow(id, authorID uint64, title string, published bool) []driver.Value {
	now := time.Now()
	return []driver.Value{id, authorID, title, "", "", "", "", "", "",
		false, false, published, false, 0.0, 0, now, now}
}

func TestStoryListFiltersToPublished(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewStoryRepo(db)

	// The expectation pins the WHERE clause: drafts never reach the
	// public listing.
	mock.ExpectQuery("FROM stories WHERE is_published=TRUE ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(storyRowCols).
			AddRow(storyRow(1, 2, "Gate of Sands", true)...))

	got, err := repo.List(context.Background(), StoryFilter{Limit: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || !got[0].IsPublished {
		t.Fatalf("got %d stories, want 1 published", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoryListByPlacementFiltersToPublished(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewStoryRepo(db)

	mock.ExpectQuery("FROM stories WHERE is_published=TRUE AND placement=").
		WithArgs("gems", 10).
		WillReturnRows(sqlmock.NewRows(storyRowCols).
			AddRow(storyRow(4, 2, "The Pearl Diver", true)...))

	got, err := repo.ListByPlacement(context.Background(), "gems", 10)
	if err != nil {
		t.Fatalf("ListByPlacement: %v", err)
	}
	if len(got) != 1 || got[0].Title != "The Pearl Diver" {
		t.Fatalf("got %+v, want one gems story", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
