package model

import "time"

// VIPCode is a single-use, time-limited token that upgrades a profile
// to the vip role when redeemed. A code is valid only while
// IsUsed=false and ExpiresAt is in the future; redemption records the
// redeemer and the time and copies ExpiresAt onto the profile's
// subscription end date.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – 8 uppercase alphanumeric characters, unique.
//  Email     – address the code was issued to.
//  ExpiresAt – end of the code's validity window.
//  IsUsed    – set on redemption; never cleared.
//  UsedBy    – profile that redeemed the code (nil while unused).
//  UsedAt    – redemption timestamp (nil while unused).
//  CreatedAt – issuance timestamp.
type VIPCode struct {
	ID        uint64     `json:"id"`
	Code      string     `json:"code"`
	Email     string     `json:"email"`
	ExpiresAt time.Time  `json:"expires_at"`
	IsUsed    bool       `json:"is_used"`
	UsedBy    *uint64    `json:"used_by,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// AuditLog is an append-only security event used by the admin
// monitoring endpoints. Details is stored as raw JSON.
type AuditLog struct {
	ID        uint64    `json:"id"`
	UserID    *uint64   `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}
