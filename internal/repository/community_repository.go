package repository

import (
	"context"
	"database/sql"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// WorkshopRepo manages community workshops and their posts.
type WorkshopRepo struct{ DB *sql.DB }

func NewWorkshopRepo(db *sql.DB) *WorkshopRepo { return &WorkshopRepo{DB: db} }

// WorkshopWithOwner embeds the owner's public card the way the
// community page renders it.
type WorkshopWithOwner struct {
	model.Workshop
	OwnerUsername string `json:"owner_username"`
	OwnerFullName string `json:"owner_full_name"`
	OwnerAvatar   string `json:"owner_avatar_url"`
}

// ListWorkshops returns workshops newest-first, optionally filtered
// by owner.
func (r *WorkshopRepo) ListWorkshops(ctx context.Context, ownerID uint64, limit int) ([]WorkshopWithOwner, error) {
	q := `SELECT w.id, w.owner_id, w.title, w.description, COALESCE(w.category,''), w.created_at,
		p.username, p.full_name, p.avatar_url
		FROM workshops w JOIN profiles p ON p.id = w.owner_id`
	args := []any{}
	if ownerID != 0 {
		q += " WHERE w.owner_id=?"
		args = append(args, ownerID)
	}
	q += " ORDER BY w.created_at DESC LIMIT ?"
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []WorkshopWithOwner{}
	for rows.Next() {
		var w WorkshopWithOwner
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Title, &w.Description, &w.Category,
			&w.CreatedAt, &w.OwnerUsername, &w.OwnerFullName, &w.OwnerAvatar); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CreateWorkshop inserts a workshop owned by the caller.
func (r *WorkshopRepo) CreateWorkshop(ctx context.Context, w *model.Workshop) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO workshops (owner_id, title, description, category) VALUES (?,?,?,?)",
		w.OwnerID, w.Title, w.Description, nullable(w.Category))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		`SELECT id, owner_id, title, description, COALESCE(category,''), created_at
		 FROM workshops WHERE id=?`, uint64(id)).Scan(
		&w.ID, &w.OwnerID, &w.Title, &w.Description, &w.Category, &w.CreatedAt)
}

// PostWithAuthor embeds the author's public card.
type PostWithAuthor struct {
	model.Post
	AuthorUsername string `json:"author_username"`
	AuthorFullName string `json:"author_full_name"`
	AuthorAvatar   string `json:"author_avatar_url"`
}

// ListPosts returns posts newest-first, optionally scoped to one
// workshop.
func (r *WorkshopRepo) ListPosts(ctx context.Context, workshopID uint64, limit int) ([]PostWithAuthor, error) {
	q := `SELECT o.id, o.workshop_id, o.author_id, o.title, o.content, o.created_at,
		p.username, p.full_name, p.avatar_url
		FROM posts o JOIN profiles p ON p.id = o.author_id`
	args := []any{}
	if workshopID != 0 {
		q += " WHERE o.workshop_id=?"
		args = append(args, workshopID)
	}
	q += " ORDER BY o.created_at DESC LIMIT ?"
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PostWithAuthor{}
	for rows.Next() {
		var p PostWithAuthor
		if err := rows.Scan(&p.ID, &p.WorkshopID, &p.AuthorID, &p.Title, &p.Content,
			&p.CreatedAt, &p.AuthorUsername, &p.AuthorFullName, &p.AuthorAvatar); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreatePost inserts a post authored by the caller.
func (r *WorkshopRepo) CreatePost(ctx context.Context, p *model.Post) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (workshop_id, author_id, title, content) VALUES (?,?,?,?)",
		p.WorkshopID, p.AuthorID, p.Title, p.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT id, workshop_id, author_id, title, content, created_at FROM posts WHERE id=?",
		uint64(id)).Scan(&p.ID, &p.WorkshopID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt)
}

// CompetitionRepo manages hall-of-quills competition entries.
type CompetitionRepo struct{ DB *sql.DB }

func NewCompetitionRepo(db *sql.DB) *CompetitionRepo { return &CompetitionRepo{DB: db} }

// List returns competitions newest-first.
func (r *CompetitionRepo) List(ctx context.Context) ([]model.Competition, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, winner_name, story_title, winner_id, created_at
		 FROM hall_competitions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Competition{}
	for rows.Next() {
		var c model.Competition
		var winner sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &c.WinnerName, &c.StoryTitle, &winner, &c.CreatedAt); err != nil {
			return nil, err
		}
		if winner.Valid {
			w := uint64(winner.Int64)
			c.WinnerID = &w
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a competition entry (admin path).
func (r *CompetitionRepo) Create(ctx context.Context, c *model.Competition) error {
	var winner any
	if c.WinnerID != nil {
		winner = *c.WinnerID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO hall_competitions (name, winner_name, story_title, winner_id) VALUES (?,?,?,?)",
		c.Name, c.WinnerName, c.StoryTitle, winner)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	var w sql.NullInt64
	err = r.DB.QueryRowContext(ctx,
		`SELECT id, name, winner_name, story_title, winner_id, created_at
		 FROM hall_competitions WHERE id=?`, uint64(id)).Scan(
		&c.ID, &c.Name, &c.WinnerName, &c.StoryTitle, &w, &c.CreatedAt)
	if w.Valid {
		wid := uint64(w.Int64)
		c.WinnerID = &wid
	}
	return err
}
