package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hekayaty/hekayaty-server/internal/model"
)

// VIPCodeRepo manages persistence for single-use VIP codes.
type VIPCodeRepo struct{ db *sql.DB }

func NewVIPCodeRepo(db *sql.DB) *VIPCodeRepo { return &VIPCodeRepo{db: db} }

const vipCodeCols = `id, code, email, expires_at, is_used, used_by, used_at, created_at`

// Create inserts a freshly generated code.
func (r *VIPCodeRepo) Create(ctx context.Context, code, email string, expiresAt time.Time) (model.VIPCode, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO vip_codes (code, email, expires_at, is_used) VALUES (?,?,?,FALSE)",
		code, email, expiresAt)
	if err != nil {
		return model.VIPCode{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.VIPCode{}, err
	}
	return r.getByID(ctx, uint64(id))
}

func (r *VIPCodeRepo) getByID(ctx context.Context, id uint64) (model.VIPCode, error) {
	var v model.VIPCode
	var usedBy sql.NullInt64
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		"SELECT "+vipCodeCols+" FROM vip_codes WHERE id=? LIMIT 1", id).Scan(
		&v.ID, &v.Code, &v.Email, &v.ExpiresAt, &v.IsUsed, &usedBy, &usedAt, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return v, ErrNotFound
	}
	if usedBy.Valid {
		u := uint64(usedBy.Int64)
		v.UsedBy = &u
	}
	if usedAt.Valid {
		t := usedAt.Time
		v.UsedAt = &t
	}
	return v, err
}

// Redeem atomically consumes a valid code and upgrades the redeeming
// profile: role vip, premium flag, subscription end copied from the
// code's expiry. Every invalid case (unknown code, already used,
// expired) collapses to ErrNotFound so the handler can answer with
// the single "Invalid or expired code" message.
func (r *VIPCodeRepo) Redeem(ctx context.Context, code string, userID uint64) (model.Profile, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Profile{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var codeID uint64
	var expiresAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT id, expires_at FROM vip_codes
		 WHERE code=? AND is_used=FALSE AND expires_at > NOW() LIMIT 1 FOR UPDATE`,
		code).Scan(&codeID, &expiresAt)
	if err == sql.ErrNoRows {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE vip_codes SET is_used=TRUE, used_by=?, used_at=NOW() WHERE id=?",
		userID, codeID); err != nil {
		return model.Profile{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET role=?, is_premium=TRUE, subscription_end_date=?, updated_at=NOW()
		 WHERE id=?`, model.RoleVIP, expiresAt, userID); err != nil {
		return model.Profile{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Profile{}, err
	}

	return NewProfileRepo(r.db).GetByID(ctx, userID)
}
