package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var profileRowCols = []string{
	"id", "email", "username", "full_name", "bio", "avatar_url", "password_hash",
	"role", "is_premium", "is_banned", "ban_reason", "subscription_end_date",
	"created_at", "updated_at",
}

func TestRedeemConsumesCodeOnce(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewVIPCodeRepo(db)
	expires := time.Now().Add(24 * time.Hour)
	now := time.Now()

	// First redemption: the guarded select finds the unused code, both
	// updates run inside one transaction and the upgraded profile comes
	// back.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM vip_codes WHERE code=").
		WithArgs("VIP12345").
		WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at"}).AddRow(3, expires))
	mock.ExpectExec("UPDATE vip_codes SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE profiles SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM profiles WHERE id=").
		WillReturnRows(sqlmock.NewRows(profileRowCols).
			AddRow(5, "reader@hekayaty.com", "reader", "Reader", "", "", "hash",
				"vip", true, false, "", expires, now, now))

	p, err := repo.Redeem(context.Background(), "vip12345", 5)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if p.Role != "vip" || !p.IsPremium {
		t.Fatalf("profile = role %q premium %v, want vip/true", p.Role, p.IsPremium)
	}

	// Second attempt: is_used=TRUE now excludes the row, so the select
	// comes back empty and the transaction rolls back.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM vip_codes WHERE code=").
		WithArgs("VIP12345").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	if _, err := repo.Redeem(context.Background(), "vip12345", 5); err != ErrNotFound {
		t.Fatalf("second redeem err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRedeemRejectsExpiredCode(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewVIPCodeRepo(db)

	// Expired codes fall out of the guarded select exactly like used
	// ones; both collapse to ErrNotFound.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM vip_codes WHERE code=").
		WithArgs("OLDCODE1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	if _, err := repo.Redeem(context.Background(), "oldcode1", 5); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
