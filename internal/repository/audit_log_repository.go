package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// AuditLogRepo manages the append-only `audit_logs` table backing the
// security monitoring endpoints.
type AuditLogRepo struct{ DB *sql.DB }

func NewAuditLogRepo(db *sql.DB) *AuditLogRepo { return &AuditLogRepo{DB: db} }

const auditCols = `id, user_id, action, COALESCE(details,''), COALESCE(ip_address,''), created_at`

// Insert appends one audit row. userID may be 0 for system events;
// details is raw JSON.
func (r *AuditLogRepo) Insert(ctx context.Context, userID uint64, action, detailsJSON, ip string) (model.AuditLog, error) {
	var uid any
	if userID != 0 {
		uid = userID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO audit_logs (user_id, action, details, ip_address) VALUES (?,?,?,?)",
		uid, action, nullable(detailsJSON), nullable(ip))
	if err != nil {
		return model.AuditLog{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AuditLog{}, err
	}
	return r.getByID(ctx, uint64(id))
}

func (r *AuditLogRepo) getByID(ctx context.Context, id uint64) (model.AuditLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+auditCols+" FROM audit_logs WHERE id=? LIMIT 1", id)
	if err != nil {
		return model.AuditLog{}, err
	}
	defer rows.Close()
	got, err := scanAuditRows(rows, 1)
	if err != nil {
		return model.AuditLog{}, err
	}
	if len(got) == 0 {
		return model.AuditLog{}, ErrNotFound
	}
	return got[0], nil
}

func scanAuditRows(rows *sql.Rows, capHint int) ([]model.AuditLog, error) {
	out := make([]model.AuditLog, 0, capHint)
	for rows.Next() {
		var a model.AuditLog
		var uid sql.NullInt64
		if err := rows.Scan(&a.ID, &uid, &a.Action, &a.Details, &a.IPAddress, &a.CreatedAt); err != nil {
			return nil, err
		}
		if uid.Valid {
			u := uint64(uid.Int64)
			a.UserID = &u
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// List returns audit rows newest-first with pagination.
func (r *AuditLogRepo) List(ctx context.Context, limit, offset int) ([]model.AuditLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+auditCols+" FROM audit_logs ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditRows(rows, limit)
}

// ListSuspicious returns rows since the cutoff whose action is one of
// the watched set (failed logins, lockouts, suspicious uploads).
func (r *AuditLogRepo) ListSuspicious(ctx context.Context, since time.Time, actions []string) ([]model.AuditLog, error) {
	if len(actions) == 0 {
		return []model.AuditLog{}, nil
	}
	placeholders := "?"
	args := []any{since}
	for i, a := range actions {
		if i > 0 {
			placeholders += ",?"
		}
		args = append(args, a)
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+auditCols+" FROM audit_logs WHERE created_at >= ? AND action IN ("+placeholders+") ORDER BY created_at DESC",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditRows(rows, 32)
}

// RecentWithIP returns the latest rows that carry an IP address, for
// the per-IP grouping done at read time by the handler.
func (r *AuditLogRepo) RecentWithIP(ctx context.Context, limit int) ([]model.AuditLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+auditCols+` FROM audit_logs
		 WHERE ip_address IS NOT NULL AND ip_address <> ''
		 ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditRows(rows, limit)
}
