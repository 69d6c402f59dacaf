// Package repository contains data access logic for the publishing
// domain. This file covers stories: listing shelves, ownership
// lookups, partial updates, publishing and the derived rating columns.
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// StoryRepo manages persistence for stories.
type StoryRepo struct{ db *sql.DB }

func NewStoryRepo(db *sql.DB) *StoryRepo { return &StoryRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions
// spanning multiple repositories.
func (r *StoryRepo) DB() *sql.DB { return r.db }

const storyCols = `id, author_id, title, description, content, cover_image,
	COALESCE(pdf_url,''), COALESCE(placement,''), COALESCE(genre,''),
	is_premium, is_short_story, is_published, is_featured,
	average_rating, rating_count, created_at, updated_at`

func scanStoryRows(rows *sql.Rows, capHint int) ([]model.Story, error) {
	out := make([]model.Story, 0, capHint)
	for rows.Next() {
		var s model.Story
		if err := rows.Scan(&s.ID, &s.AuthorID, &s.Title, &s.Description, &s.Content,
			&s.CoverImage, &s.PDFURL, &s.Placement, &s.Genre, &s.IsPremium,
			&s.IsShortStory, &s.IsPublished, &s.IsFeatured, &s.AverageRating,
			&s.RatingCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// StoryFilter narrows the public listing. Nil pointers mean "no
// filter"; listings only ever show published rows.
type StoryFilter struct {
	Premium    *bool
	ShortStory *bool
	Limit      int
	Offset     int
}

// List returns published stories newest-first with optional equality
// filters and pagination.
func (r *StoryRepo) List(ctx context.Context, f StoryFilter) ([]model.Story, error) {
	where := []string{"is_published=TRUE"}
	args := []any{}
	if f.Premium != nil {
		where = append(where, "is_premium=?")
		args = append(args, *f.Premium)
	}
	if f.ShortStory != nil {
		where = append(where, "is_short_story=?")
		args = append(args, *f.ShortStory)
	}
	q := "SELECT " + storyCols + " FROM stories WHERE " + strings.Join(where, " AND ") +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStoryRows(rows, f.Limit)
}

// ListByPlacement backs the special/gems/workshops shelves: the newest
// published stories carrying that placement tag.
func (r *StoryRepo) ListByPlacement(ctx context.Context, placement string, limit int) ([]model.Story, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+storyCols+` FROM stories
		 WHERE is_published=TRUE AND placement=?
		 ORDER BY created_at DESC LIMIT ?`, placement, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStoryRows(rows, limit)
}

// ListFeatured returns published, admin-featured stories newest-first.
func (r *StoryRepo) ListFeatured(ctx context.Context, limit int) ([]model.Story, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+storyCols+` FROM stories
		 WHERE is_published=TRUE AND is_featured=TRUE
		 ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStoryRows(rows, limit)
}

// GetByID retrieves one story or ErrNotFound.
func (r *StoryRepo) GetByID(ctx context.Context, id uint64) (model.Story, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+storyCols+" FROM stories WHERE id=? LIMIT 1", id)
	if err != nil {
		return model.Story{}, err
	}
	defer rows.Close()
	got, err := scanStoryRows(rows, 1)
	if err != nil {
		return model.Story{}, err
	}
	if len(got) == 0 {
		return model.Story{}, ErrNotFound
	}
	return got[0], nil
}

// AuthorID returns only the owner reference, used by ownership checks
// before any mutation.
func (r *StoryRepo) AuthorID(ctx context.Context, id uint64) (uint64, error) {
	var authorID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT author_id FROM stories WHERE id=? LIMIT 1", id).Scan(&authorID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return authorID, err
}

// Create inserts a story and re-reads the row so DB defaults
// (timestamps, zeroed rating columns) come back populated.
func (r *StoryRepo) Create(ctx context.Context, s *model.Story) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO stories (author_id, title, description, content, cover_image,
			pdf_url, placement, genre, is_premium, is_short_story, is_published)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		s.AuthorID, s.Title, s.Description, s.Content, s.CoverImage,
		nullable(s.PDFURL), nullable(s.Placement), nullable(s.Genre),
		s.IsPremium, s.IsShortStory, s.IsPublished)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*s = stored
	return nil
}

// StoryUpdate carries the owner-editable fields for a partial merge.
type StoryUpdate struct {
	Title        *string
	Description  *string
	Content      *string
	CoverImage   *string
	Placement    *string
	Genre        *string
	IsPremium    *bool
	IsShortStory *bool
	IsPublished  *bool
}

// Update merges the provided fields plus a refreshed updated_at and
// returns the stored row. The caller is responsible for the ownership
// check.
func (r *StoryRepo) Update(ctx context.Context, id uint64, upd StoryUpdate) (model.Story, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	add := func(col string, v any) { set = append(set, col+"=?"); args = append(args, v) }
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.CoverImage != nil {
		add("cover_image", *upd.CoverImage)
	}
	if upd.Placement != nil {
		add("placement", *upd.Placement)
	}
	if upd.Genre != nil {
		add("genre", *upd.Genre)
	}
	if upd.IsPremium != nil {
		add("is_premium", *upd.IsPremium)
	}
	if upd.IsShortStory != nil {
		add("is_short_story", *upd.IsShortStory)
	}
	if upd.IsPublished != nil {
		add("is_published", *upd.IsPublished)
	}
	args = append(args, id)
	q := "UPDATE stories SET " + strings.Join(set, ", ") + " WHERE id=?"
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return model.Story{}, err
	}
	return r.GetByID(ctx, id)
}

// Publish flips is_published and returns the stored row.
func (r *StoryRepo) Publish(ctx context.Context, id uint64) (model.Story, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE stories SET is_published=TRUE, updated_at=NOW() WHERE id=?", id)
	if err != nil {
		return model.Story{}, err
	}
	return r.GetByID(ctx, id)
}

// SetFeatured flips the curated highlight flag (admin only path).
func (r *StoryRepo) SetFeatured(ctx context.Context, id uint64, featured bool) (model.Story, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE stories SET is_featured=?, updated_at=NOW() WHERE id=?", featured, id)
	if err != nil {
		return model.Story{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.AuthorID(ctx, id); err != nil {
			return model.Story{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the row. Deleting a missing id surfaces ErrNotFound.
func (r *StoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM stories WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRatingStats persists the recomputed aggregate columns. There
// is deliberately no lock here: concurrent raters race and the last
// writer wins, matching the read-modify-write the platform always had.
func (r *StoryRepo) UpdateRatingStats(ctx context.Context, id uint64, avg float64, count int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE stories SET average_rating=?, rating_count=? WHERE id=?", avg, count, id)
	return err
}

// Search does a case-insensitive substring match on title and
// description over published stories.
func (r *StoryRepo) Search(ctx context.Context, q string, limit int) ([]model.Story, error) {
	pat := "%" + strings.ToLower(q) + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+storyCols+` FROM stories
		 WHERE is_published=TRUE AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)
		 LIMIT ?`, pat, pat, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStoryRows(rows, limit)
}

// PublishedAuthorIDs returns the author id of every published story,
// one entry per story. The active-writer leaderboard tallies these in
// memory rather than asking the database to rank.
func (r *StoryRepo) PublishedAuthorIDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT author_id FROM stories WHERE is_published=TRUE")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CountByAuthor backs the creator cards' story counts.
func (r *StoryRepo) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM stories WHERE author_id=?", authorID).Scan(&n)
	return n, err
}

func (r *StoryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stories").Scan(&n)
	return n, err
}

func (r *StoryRepo) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM stories WHERE is_published=TRUE").Scan(&n)
	return n, err
}

func (r *StoryRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM stories WHERE created_at >= ?", since).Scan(&n)
	return n, err
}

// RecentActivityRow is the slim shape the analytics dashboard shows
// for the latest stories, author name resolved via join.
type RecentActivityRow struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	IsPublished bool      `json:"is_published"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecentWithAuthor lists the newest stories joined with their author's
// public names.
func (r *StoryRepo) RecentWithAuthor(ctx context.Context, limit int) ([]RecentActivityRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.title, s.is_published, p.username, p.full_name, s.created_at
		 FROM stories s JOIN profiles p ON p.id = s.author_id
		 ORDER BY s.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RecentActivityRow, 0, limit)
	for rows.Next() {
		var a RecentActivityRow
		if err := rows.Scan(&a.ID, &a.Title, &a.IsPublished, &a.Username, &a.FullName, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// TopRatedRow backs the analytics "top rated" block.
type TopRatedRow struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	AverageRating float64 `json:"average_rating"`
	Username      string  `json:"username"`
}

// TopRated lists published stories by average rating descending,
// skipping unrated ones.
func (r *StoryRepo) TopRated(ctx context.Context, limit int) ([]TopRatedRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.title, s.average_rating, p.username
		 FROM stories s JOIN profiles p ON p.id = s.author_id
		 WHERE s.is_published=TRUE AND s.rating_count > 0
		 ORDER BY s.average_rating DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TopRatedRow, 0, limit)
	for rows.Next() {
		var t TopRatedRow
		if err := rows.Scan(&t.ID, &t.Title, &t.AverageRating, &t.Username); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
