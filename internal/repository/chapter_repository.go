package repository

import (
	"context"
	"database/sql"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// ChapterRepo manages persistence for story chapters. Chapters are
// always read in ascending chapter_order; the order is unique within
// a story and a duplicate insert returns ErrConflict.
type ChapterRepo struct{ DB *sql.DB }

func NewChapterRepo(db *sql.DB) *ChapterRepo { return &ChapterRepo{DB: db} }

const chapterCols = `id, story_id, chapter_title, chapter_order, content_url,
	content_type, is_published, created_at`

// ListByStory returns a story's chapters in reading order. An unknown
// story yields an empty slice, not an error.
func (r *ChapterRepo) ListByStory(ctx context.Context, storyID uint64) ([]model.Chapter, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+chapterCols+" FROM story_chapters WHERE story_id=? ORDER BY chapter_order ASC",
		storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Chapter{}
	for rows.Next() {
		var ch model.Chapter
		if err := rows.Scan(&ch.ID, &ch.StoryID, &ch.ChapterTitle, &ch.ChapterOrder,
			&ch.ContentURL, &ch.ContentType, &ch.IsPublished, &ch.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// Create inserts a chapter. An existing (story_id, chapter_order)
// pair maps the duplicate-key error onto ErrConflict so handlers can
// answer 409 instead of 500.
func (r *ChapterRepo) Create(ctx context.Context, ch *model.Chapter) error {
	var exists int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM story_chapters WHERE story_id=? AND chapter_order=?",
		ch.StoryID, ch.ChapterOrder).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO story_chapters (story_id, chapter_title, chapter_order, content_url, content_type, is_published)
		 VALUES (?,?,?,?,?,?)`,
		ch.StoryID, ch.ChapterTitle, ch.ChapterOrder, ch.ContentURL, ch.ContentType, ch.IsPublished)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ch.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT "+chapterCols+" FROM story_chapters WHERE id=?", ch.ID).Scan(
		&ch.ID, &ch.StoryID, &ch.ChapterTitle, &ch.ChapterOrder,
		&ch.ContentURL, &ch.ContentType, &ch.IsPublished, &ch.CreatedAt)
}
