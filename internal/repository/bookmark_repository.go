package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// BookmarkRepo manages persistence for bookmarks. The (user, story)
// pair is unique and a duplicate add returns ErrConflict rather than
// being silently ignored.
type BookmarkRepo struct{ DB *sql.DB }

func NewBookmarkRepo(db *sql.DB) *BookmarkRepo { return &BookmarkRepo{DB: db} }

// Create inserts a bookmark or returns ErrConflict when the user has
// already bookmarked the story.
func (r *BookmarkRepo) Create(ctx context.Context, userID, storyID uint64) (model.Bookmark, error) {
	var existing int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookmarks WHERE user_id=? AND story_id=?",
		userID, storyID).Scan(&existing)
	if err != nil {
		return model.Bookmark{}, err
	}
	if existing > 0 {
		return model.Bookmark{}, ErrConflict
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bookmarks (user_id, story_id) VALUES (?,?)", userID, storyID)
	if err != nil {
		// Unique index may still fire under concurrent adds.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Bookmark{}, ErrConflict
		}
		return model.Bookmark{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Bookmark{}, err
	}
	var b model.Bookmark
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, story_id, created_at FROM bookmarks WHERE id=?",
		uint64(id)).Scan(&b.ID, &b.UserID, &b.StoryID, &b.CreatedAt)
	return b, err
}

// Delete removes the caller's bookmark for a story.
func (r *BookmarkRepo) Delete(ctx context.Context, userID, storyID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM bookmarks WHERE user_id=? AND story_id=?", userID, storyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// BookmarkedStory is a bookmark joined with its story and the story
// author's public card, the shape the reading-list page consumes.
type BookmarkedStory struct {
	model.Bookmark
	Story          model.Story `json:"story"`
	AuthorUsername string      `json:"author_username"`
	AuthorFullName string      `json:"author_full_name"`
}

// ListByUser returns a user's bookmarks newest-first with the
// bookmarked story embedded.
func (r *BookmarkRepo) ListByUser(ctx context.Context, userID uint64) ([]BookmarkedStory, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.story_id, b.created_at,
			s.id, s.author_id, s.title, s.description, s.content, s.cover_image,
			COALESCE(s.pdf_url,''), COALESCE(s.placement,''), COALESCE(s.genre,''),
			s.is_premium, s.is_short_story, s.is_published, s.is_featured,
			s.average_rating, s.rating_count, s.created_at, s.updated_at,
			p.username, p.full_name
		 FROM bookmarks b
		 JOIN stories s  ON s.id = b.story_id
		 JOIN profiles p ON p.id = s.author_id
		 WHERE b.user_id=? ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BookmarkedStory{}
	for rows.Next() {
		var b BookmarkedStory
		s := &b.Story
		if err := rows.Scan(&b.ID, &b.UserID, &b.StoryID, &b.CreatedAt,
			&s.ID, &s.AuthorID, &s.Title, &s.Description, &s.Content, &s.CoverImage,
			&s.PDFURL, &s.Placement, &s.Genre, &s.IsPremium, &s.IsShortStory,
			&s.IsPublished, &s.IsFeatured, &s.AverageRating, &s.RatingCount,
			&s.CreatedAt, &s.UpdatedAt, &b.AuthorUsername, &b.AuthorFullName); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
