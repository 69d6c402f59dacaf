package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/utils"
)

// ProfileRepo manages persistence for the `profiles` table.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")
var ErrUsernameExists = errors.New("username already exists")

const profileCols = `id, email, username, full_name, bio, avatar_url, password_hash,
	role, is_premium, is_banned, COALESCE(ban_reason,''), subscription_end_date,
	created_at, updated_at`

func scanProfile(row *sql.Row) (model.Profile, error) {
	var p model.Profile
	var subEnd sql.NullTime
	err := row.Scan(&p.ID, &p.Email, &p.Username, &p.FullName, &p.Bio, &p.AvatarURL,
		&p.PasswordHash, &p.Role, &p.IsPremium, &p.IsBanned, &p.BanReason, &subEnd,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if subEnd.Valid {
		t := subEnd.Time
		p.SubscriptionEndDate = &t
	}
	return p, err
}

// Create inserts a profile with a freshly hashed password and returns
// its ID. Duplicate email/username collisions are mapped onto the
// dedicated sentinels by inspecting the MySQL duplicate-key error.
func (r *ProfileRepo) Create(ctx context.Context, email, username, fullName, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO profiles (email, username, full_name, password_hash, role) VALUES (?,?,?,?,?)",
		email, username, fullName, hash, model.RoleFree)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a profile by normalized email.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanProfile(r.DB.QueryRowContext(ctx,
		"SELECT "+profileCols+" FROM profiles WHERE email=? LIMIT 1", email))
}

// GetByID fetches a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id uint64) (model.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx,
		"SELECT "+profileCols+" FROM profiles WHERE id=? LIMIT 1", id))
}

// Role returns only profiles.role for id. Used by the admin guard so
// role changes and bans take effect without reissuing tokens.
func (r *ProfileRepo) Role(ctx context.Context, id uint64) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT role FROM profiles WHERE id=? LIMIT 1", id).Scan(&role)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return role, err
}

// ProfileUpdate carries the self-service editable fields. Nil pointers
// are left untouched (partial merge).
type ProfileUpdate struct {
	Username  *string
	FullName  *string
	Bio       *string
	AvatarURL *string
}

// Update applies a partial merge of the provided fields and refreshes
// updated_at, then returns the stored row.
func (r *ProfileRepo) Update(ctx context.Context, id uint64, upd ProfileUpdate) (model.Profile, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if upd.Username != nil {
		set = append(set, "username=?")
		args = append(args, *upd.Username)
	}
	if upd.FullName != nil {
		set = append(set, "full_name=?")
		args = append(args, *upd.FullName)
	}
	if upd.Bio != nil {
		set = append(set, "bio=?")
		args = append(args, *upd.Bio)
	}
	if upd.AvatarURL != nil {
		set = append(set, "avatar_url=?")
		args = append(args, *upd.AvatarURL)
	}
	args = append(args, id)
	q := "UPDATE profiles SET " + strings.Join(set, ", ") + " WHERE id=?"
	if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Profile{}, ErrUsernameExists
		}
		return model.Profile{}, err
	}
	return r.GetByID(ctx, id)
}

// SetRole updates the role; is_premium tracks whether the new role is
// vip, mirroring the admin role endpoint's behavior.
func (r *ProfileRepo) SetRole(ctx context.Context, id uint64, role string) (model.Profile, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET role=?, is_premium=?, updated_at=NOW() WHERE id=?",
		role, role == model.RoleVIP, id)
	if err != nil {
		return model.Profile{}, err
	}
	return r.GetByID(ctx, id)
}

// SetBan flips the ban flag with an optional reason.
func (r *ProfileRepo) SetBan(ctx context.Context, id uint64, banned bool, reason string) (model.Profile, error) {
	var reasonArg any
	if reason != "" {
		reasonArg = reason
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET is_banned=?, ban_reason=?, updated_at=NOW() WHERE id=?",
		banned, reasonArg, id)
	if err != nil {
		return model.Profile{}, err
	}
	return r.GetByID(ctx, id)
}

// UpgradePremium marks the profile vip/premium without touching the
// subscription end date (the self-service premium endpoint).
func (r *ProfileRepo) UpgradePremium(ctx context.Context, id uint64) (model.Profile, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET role=?, is_premium=TRUE, updated_at=NOW() WHERE id=?",
		model.RoleVIP, id)
	if err != nil {
		return model.Profile{}, err
	}
	return r.GetByID(ctx, id)
}

// List returns profiles newest-first with pagination.
func (r *ProfileRepo) List(ctx context.Context, limit, offset int) ([]model.Profile, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+profileCols+" FROM profiles ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Profile, 0, limit)
	for rows.Next() {
		var p model.Profile
		var subEnd sql.NullTime
		if err := rows.Scan(&p.ID, &p.Email, &p.Username, &p.FullName, &p.Bio, &p.AvatarURL,
			&p.PasswordHash, &p.Role, &p.IsPremium, &p.IsBanned, &p.BanReason, &subEnd,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if subEnd.Valid {
			t := subEnd.Time
			p.SubscriptionEndDate = &t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the total number of profiles; CountPremium and
// CountByRole back the admin dashboards.
func (r *ProfileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&n)
	return n, err
}

func (r *ProfileRepo) CountPremium(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM profiles WHERE is_premium=TRUE").Scan(&n)
	return n, err
}

func (r *ProfileRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM profiles WHERE role=?", role).Scan(&n)
	return n, err
}

// CountCreatedSince backs the analytics metrics period window.
func (r *ProfileRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM profiles WHERE created_at >= ?", since).Scan(&n)
	return n, err
}

// PublicProfile is the sanitized card returned by search, creators and
// the leaderboard. No email, no flags.
type PublicProfile struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Search performs a case-insensitive substring match on username and
// full name.
func (r *ProfileRepo) Search(ctx context.Context, q string, limit int) ([]PublicProfile, error) {
	pat := "%" + strings.ToLower(q) + "%"
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, username, full_name, avatar_url, bio FROM profiles
		 WHERE LOWER(username) LIKE ? OR LOWER(full_name) LIKE ? LIMIT ?`,
		pat, pat, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PublicProfile{}
	for rows.Next() {
		var p PublicProfile
		if err := rows.Scan(&p.ID, &p.Username, &p.FullName, &p.AvatarURL, &p.Bio); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListPublic returns sanitized creator cards with pagination.
func (r *ProfileRepo) ListPublic(ctx context.Context, limit, offset int) ([]PublicProfile, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, username, full_name, avatar_url, bio, role FROM profiles
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PublicProfile{}
	for rows.Next() {
		var p PublicProfile
		if err := rows.Scan(&p.ID, &p.Username, &p.FullName, &p.AvatarURL, &p.Bio, &p.Role); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPublic returns the sanitized card for one profile.
func (r *ProfileRepo) GetPublic(ctx context.Context, id uint64) (PublicProfile, error) {
	var p PublicProfile
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, full_name, avatar_url, bio, role FROM profiles WHERE id=? LIMIT 1`,
		id).Scan(&p.ID, &p.Username, &p.FullName, &p.AvatarURL, &p.Bio, &p.Role)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}
