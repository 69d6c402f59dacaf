package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// ProjectRepo manages private writing projects. Projects are only
// ever listed and mutated by their author.
type ProjectRepo struct{ DB *sql.DB }

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{DB: db} }

const projectCols = `id, author_id, title, description, content, COALESCE(status,''), created_at, updated_at`

// ListByAuthor returns an author's projects newest-first.
func (r *ProjectRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Project, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE author_id=? ORDER BY created_at DESC",
		authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Description, &p.Content,
			&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID retrieves one project or ErrNotFound.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (model.Project, error) {
	var p model.Project
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE id=? LIMIT 1", id).Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Description, &p.Content,
		&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// Create inserts a project and re-reads the stored row.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO projects (author_id, title, description, content, status) VALUES (?,?,?,?,?)",
		p.AuthorID, p.Title, p.Description, p.Content, nullable(p.Status))
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
	*p = stored
	return nil
}

// ProjectUpdate carries the author-editable fields.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Content     *string
	Status      *string
}

// Update merges the provided fields; ownership is checked by the
// handler before calling.
func (r *ProjectRepo) Update(ctx context.Context, id uint64, upd ProjectUpdate) (model.Project, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if upd.Title != nil {
		set = append(set, "title=?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		set = append(set, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.Content != nil {
		set = append(set, "content=?")
		args = append(args, *upd.Content)
	}
	if upd.Status != nil {
		set = append(set, "status=?")
		args = append(args, *upd.Status)
	}
	args = append(args, id)
	q := "UPDATE projects SET " + strings.Join(set, ", ") + " WHERE id=?"
	if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
		return model.Project{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the project row.
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM projects WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
