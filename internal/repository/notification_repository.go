package repository

import (
	"context"
	"database/sql"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// NotificationRepo manages persistence for user notifications.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts an unread notification and returns the stored row.
func (r *NotificationRepo) Create(ctx context.Context, userID uint64, content string) (model.Notification, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (user_id, content, is_read) VALUES (?,?,FALSE)",
		userID, content)
	if err != nil {
		return model.Notification{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Notification{}, err
	}
	var n model.Notification
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, content, is_read, created_at FROM notifications WHERE id=?",
		uint64(id)).Scan(&n.ID, &n.UserID, &n.Content, &n.IsRead, &n.CreatedAt)
	return n, err
}

// ListByUser returns the caller's notifications newest-first,
// optionally only unread ones.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, limit int, unreadOnly bool) ([]model.Notification, error) {
	q := "SELECT id, user_id, content, is_read, created_at FROM notifications WHERE user_id=?"
	if unreadOnly {
		q += " AND is_read=FALSE"
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	rows, err := r.DB.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags one notification as read, scoped to its owner so a
// user cannot touch someone else's rows.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) (model.Notification, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=TRUE WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return model.Notification{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish missing row from someone else's row.
		var exists int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM notifications WHERE id=?", id).Scan(&exists); err != nil {
			return model.Notification{}, err
		}
		if exists == 0 {
			return model.Notification{}, ErrNotFound
		}
	}
	var n model.Notification
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, content, is_read, created_at FROM notifications WHERE id=? AND user_id=?",
		id, userID).Scan(&n.ID, &n.UserID, &n.Content, &n.IsRead, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return n, ErrForbidden
	}
	return n, err
}
