package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// CharacterRepo manages the curated legendary-characters gallery.
type CharacterRepo struct{ DB *sql.DB }

func NewCharacterRepo(db *sql.DB) *CharacterRepo { return &CharacterRepo{DB: db} }

const characterCols = `id, name, description, COALESCE(image_url,''), COALESCE(story_title,''), created_at, updated_at`

// List returns characters newest-first.
func (r *CharacterRepo) List(ctx context.Context, limit int) ([]model.Character, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+characterCols+" FROM characters ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Character{}
	for rows.Next() {
		var c model.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL,
			&c.StoryTitle, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID retrieves one character or ErrNotFound.
func (r *CharacterRepo) GetByID(ctx context.Context, id uint64) (model.Character, error) {
	var c model.Character
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+characterCols+" FROM characters WHERE id=? LIMIT 1", id).Scan(
		&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.StoryTitle, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// Create inserts a character and re-reads the stored row.
func (r *CharacterRepo) Create(ctx context.Context, c *model.Character) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO characters (name, description, image_url, story_title) VALUES (?,?,?,?)",
		c.Name, c.Description, nullable(c.ImageURL), nullable(c.StoryTitle))
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
	*c = stored
	return nil
}

// CharacterUpdate carries the admin-editable fields.
type CharacterUpdate struct {
	Name        *string
	Description *string
	ImageURL    *string
	StoryTitle  *string
}

// Update merges the provided fields into the stored row.
func (r *CharacterRepo) Update(ctx context.Context, id uint64, upd CharacterUpdate) (model.Character, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if upd.Name != nil {
		set = append(set, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		set = append(set, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.ImageURL != nil {
		set = append(set, "image_url=?")
		args = append(args, nullable(*upd.ImageURL))
	}
	if upd.StoryTitle != nil {
		set = append(set, "story_title=?")
		args = append(args, nullable(*upd.StoryTitle))
	}
	args = append(args, id)
	q := "UPDATE characters SET " + strings.Join(set, ", ") + " WHERE id=?"
	if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
		return model.Character{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a character row.
func (r *CharacterRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM characters WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
