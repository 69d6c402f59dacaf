package model

import "time"

// Profile represents a registered user as stored in the `profiles`
// table. Unlike most content entities it doubles as the identity
// record: the password hash and role live here. The json tags are
// chosen to match the field names the web client already consumes.
//
// Fields:
//  ID                  – primary key identifier of the user.
//  Email               – unique email address.
//  Username            – unique public handle.
//  FullName            – display name.
//  Bio                 – free-form self description.
//  AvatarURL           – hosted avatar image.
//  PasswordHash        – bcrypt hashed password (never serialized).
//  Role                – free, vip or admin.
//  IsPremium           – whether premium content is accessible.
//  IsBanned            – whether the account is blocked.
//  BanReason           – admin supplied reason, empty when not banned.
//  SubscriptionEndDate – when VIP access lapses (nil for free users).
//  CreatedAt           – timestamp of registration.
//  UpdatedAt           – timestamp of last profile change.
type Profile struct {
	ID                  uint64     `json:"id"`
	Email               string     `json:"email"`
	Username            string     `json:"username"`
	FullName            string     `json:"full_name"`
	Bio                 string     `json:"bio"`
	AvatarURL           string     `json:"avatar_url"`
	PasswordHash        string     `json:"-"`
	Role                string     `json:"role"`
	IsPremium           bool       `json:"is_premium"`
	IsBanned            bool       `json:"is_banned"`
	BanReason           string     `json:"ban_reason,omitempty"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Roles stored in profiles.role.
const (
	RoleFree  = "free"
	RoleVIP   = "vip"
	RoleAdmin = "admin"
)

// RefreshToken models an entry in the `refresh_tokens` table. Only
// the SHA-256 hash of the issued token is persisted.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
