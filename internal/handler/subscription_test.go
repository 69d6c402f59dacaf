package handler

import (
	"database/sql"
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/repository"
	"github.com/hekayaty/hekayaty-server/internal/service"
)

var auditRowCols = []string{"id", "user_id", "action", "details", "ip_address", "created_at"}

func vipProfileRow(id uint64, expires time.Time) []driver.Value {
	now := time.Now()
	return []driver.Value{id, "reader@hekayaty.com", "reader", "Reader", "", "", "hash",
		"vip", true, false, "", expires, now, now}
}

func subscriptionRequest(t *testing.T, fn echo.HandlerFunc, target, body string, uid uint64) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	if err := fn(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestRedeemRejectsMalformedCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"too short", `{"code":"ABC"}`},
		{"too long", `{"code":"ABCDEFGH123"}`},
		{"empty", `{"code":""}`},
		{"whitespace only", `{"code":"        "}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewSubscriptionHandler(nil, nil, nil, nil, false)
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/v1/vip/redeem", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := h.Redeem(c); err != nil {
				t.Fatalf("Redeem: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			// Malformed and unknown codes answer identically.
			if !strings.Contains(rec.Body.String(), "Invalid or expired code") {
				t.Fatalf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestGenerateCodeRejectsBadEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing", `{}`},
		{"blank", `{"email":"   "}`},
		{"no at sign", `{"email":"not-an-email"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewSubscriptionHandler(nil, nil, nil, nil, false)
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/v1/admin/vip/codes", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := h.GenerateCode(c); err != nil {
				t.Fatalf("GenerateCode: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "valid email required") {
				t.Fatalf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestRedeemUpgradesProfileOnceAndAudits(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	profileCols := []string{
		"id", "email", "username", "full_name", "bio", "avatar_url", "password_hash",
		"role", "is_premium", "is_banned", "ban_reason", "subscription_end_date",
		"created_at", "updated_at",
	}
	h := NewSubscriptionHandler(
		repository.NewVIPCodeRepo(db),
		repository.NewProfileRepo(db),
		service.NewMailer(""),
		repository.NewAuditLogRepo(db),
		false,
	)
	expires := time.Now().Add(48 * time.Hour)
	now := time.Now()

	// First redemption succeeds, upgrades the profile and leaves an
	// audit row behind.
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
		WillReturnRows(sqlmock.NewRows(profileCols).AddRow(vipProfileRow(5, expires)...))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM audit_logs WHERE id=").
		WillReturnRows(sqlmock.NewRows(auditRowCols).
			AddRow(1, 5, "vip_code_redeemed", "{}", "192.0.2.1", now))

	rec := subscriptionRequest(t, h.Redeem, "/v1/subscriptions/redeem", `{"code":"vip12345"}`, 5)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"role":"vip"`) {
		t.Fatalf("body = %q", rec.Body.String())
	}

	// Second attempt with the same code: the guarded select finds
	// nothing, no audit row is written.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM vip_codes WHERE code=").
		WithArgs("VIP12345").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	rec = subscriptionRequest(t, h.Redeem, "/v1/subscriptions/redeem", `{"code":"vip12345"}`, 5)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid or expired code") {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGenerateCodeAudits(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	h := NewSubscriptionHandler(
		repository.NewVIPCodeRepo(db),
		nil,
		service.NewMailer(""), // keyless mailer is a no-op
		repository.NewAuditLogRepo(db),
		false,
	)
	now := time.Now()
	vipCodeCols := []string{
		"id", "code", "email", "expires_at", "is_used", "used_by", "used_at", "created_at",
	}

	mock.ExpectExec("INSERT INTO vip_codes").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("FROM vip_codes WHERE id=").
		WillReturnRows(sqlmock.NewRows(vipCodeCols).
			AddRow(11, "VIP12345", "reader@hekayaty.com", now.Add(30*24*time.Hour), false, nil, nil, now))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery("FROM audit_logs WHERE id=").
		WillReturnRows(sqlmock.NewRows(auditRowCols).
			AddRow(2, 9, "vip_code_generated", "{}", "192.0.2.1", now))

	rec := subscriptionRequest(t, h.GenerateCode, "/v1/subscriptions/generate-code", `{"email":"reader@hekayaty.com"}`, 9)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email_sent":true`) {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
