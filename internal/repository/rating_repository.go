package repository

import (
	"context"
	"database/sql"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// RatingRepo manages persistence for ratings. A (user, story) pair is
// unique: Upsert updates the existing row instead of inserting a
// second one.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

const ratingCols = `id, user_id, story_id, rating, COALESCE(review,''), created_at, updated_at`

// Upsert writes the caller's rating for a story: update when a row
// for (user, story) already exists, insert otherwise. Returns the
// stored row.
func (r *RatingRepo) Upsert(ctx context.Context, userID, storyID uint64, rating int, review string) (model.Rating, error) {
	var existingID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM ratings WHERE user_id=? AND story_id=? LIMIT 1",
		userID, storyID).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		res, err := r.DB.ExecContext(ctx,
			"INSERT INTO ratings (user_id, story_id, rating, review) VALUES (?,?,?,?)",
			userID, storyID, rating, nullable(review))
		if err != nil {
			return model.Rating{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return model.Rating{}, err
		}
		existingID = uint64(id)
	case err != nil:
		return model.Rating{}, err
	default:
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE ratings SET rating=?, review=?, updated_at=NOW() WHERE id=?",
			rating, nullable(review), existingID); err != nil {
			return model.Rating{}, err
		}
	}
	return r.getByID(ctx, existingID)
}

func (r *RatingRepo) getByID(ctx context.Context, id uint64) (model.Rating, error) {
	var m model.Rating
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+ratingCols+" FROM ratings WHERE id=? LIMIT 1", id).Scan(
		&m.ID, &m.UserID, &m.StoryID, &m.Rating, &m.Review, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	return m, err
}

// Values returns all rating values for a story. The caller computes
// the mean and writes it back to the story row; this read-then-write
// is intentionally unguarded (see DESIGN.md).
func (r *RatingRepo) Values(ctx context.Context, storyID uint64) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT rating FROM ratings WHERE story_id=?", storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// RatingWithAuthor is a rating joined with the rater's public names
// for the story's review list.
type RatingWithAuthor struct {
	model.Rating
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// ListByStory returns a story's ratings newest-first, each with the
// rater's public card.
func (r *RatingRepo) ListByStory(ctx context.Context, storyID uint64) ([]RatingWithAuthor, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.story_id, r.rating, COALESCE(r.review,''),
			r.created_at, r.updated_at, p.username, p.full_name, p.avatar_url
		 FROM ratings r JOIN profiles p ON p.id = r.user_id
		 WHERE r.story_id=? ORDER BY r.created_at DESC`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RatingWithAuthor{}
	for rows.Next() {
		var m RatingWithAuthor
		if err := rows.Scan(&m.ID, &m.UserID, &m.StoryID, &m.Rating, &m.Review,
			&m.CreatedAt, &m.UpdatedAt, &m.Username, &m.FullName, &m.AvatarURL); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
