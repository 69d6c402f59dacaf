package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// ComicRepo manages persistence for comics. Comics follow the story
// ownership rules but carry no chapters or rating columns.
type ComicRepo struct{ DB *sql.DB }

func NewComicRepo(db *sql.DB) *ComicRepo { return &ComicRepo{DB: db} }

const comicCols = `id, author_id, title, description, cover_url,
	is_premium, is_published, is_featured, created_at, updated_at`

func scanComicRows(rows *sql.Rows, capHint int) ([]model.Comic, error) {
	out := make([]model.Comic, 0, capHint)
	for rows.Next() {
		var c model.Comic
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Title, &c.Description, &c.CoverURL,
			&c.IsPremium, &c.IsPublished, &c.IsFeatured, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// List returns published comics newest-first with pagination.
func (r *ComicRepo) List(ctx context.Context, limit, offset int) ([]model.Comic, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+comicCols+" FROM comics WHERE is_published=TRUE ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComicRows(rows, limit)
}

// ListFeatured returns published, admin-featured comics newest-first.
func (r *ComicRepo) ListFeatured(ctx context.Context, limit int) ([]model.Comic, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+comicCols+` FROM comics
		 WHERE is_published=TRUE AND is_featured=TRUE
		 ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComicRows(rows, limit)
}

// Create inserts a comic and re-reads the stored row.
func (r *ComicRepo) Create(ctx context.Context, c *model.Comic) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO comics (author_id, title, description, cover_url, is_premium, is_published)
		 VALUES (?,?,?,?,?,?)`,
		c.AuthorID, c.Title, c.Description, c.CoverURL, c.IsPremium, c.IsPublished)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT "+comicCols+" FROM comics WHERE id=?", uint64(id)).Scan(
		&c.ID, &c.AuthorID, &c.Title, &c.Description, &c.CoverURL,
		&c.IsPremium, &c.IsPublished, &c.IsFeatured, &c.CreatedAt, &c.UpdatedAt)
}

// SetFeatured flips the curated flag; missing ids surface ErrNotFound.
func (r *ComicRepo) SetFeatured(ctx context.Context, id uint64, featured bool) (model.Comic, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE comics SET is_featured=?, updated_at=NOW() WHERE id=?", featured, id)
	if err != nil {
		return model.Comic{}, err
	}
	var c model.Comic
	err = r.DB.QueryRowContext(ctx,
		"SELECT "+comicCols+" FROM comics WHERE id=? LIMIT 1", id).Scan(
		&c.ID, &c.AuthorID, &c.Title, &c.Description, &c.CoverURL,
		&c.IsPremium, &c.IsPublished, &c.IsFeatured, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// Search matches published comics by title or description.
func (r *ComicRepo) Search(ctx context.Context, q string, limit int) ([]model.Comic, error) {
	pat := "%" + strings.ToLower(q) + "%"
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+comicCols+` FROM comics
		 WHERE is_published=TRUE AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)
		 LIMIT ?`, pat, pat, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComicRows(rows, limit)
}

// CountByAuthor backs the creator cards' comic counts.
func (r *ComicRepo) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comics WHERE author_id=?", authorID).Scan(&n)
	return n, err
}

func (r *ComicRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM comics").Scan(&n)
	return n, err
}
