package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/queue"
	"github.com/hekayaty/hekayaty-server/internal/repository"
	"github.com/hekayaty/hekayaty-server/internal/service"
	"github.com/hekayaty/hekayaty-server/internal/utils"
)

// vipCodeTTL is how long a generated code stays redeemable.
const vipCodeTTL = 30 * 24 * time.Hour

// SubscriptionHandler covers VIP code generation (admin) and
// redemption (any authenticated user).
type SubscriptionHandler struct {
	Codes    *repository.VIPCodeRepo
	Profiles *repository.ProfileRepo
	Mailer   *service.Mailer
	Audit    *repository.AuditLogRepo
	Events   bool
}

func NewSubscriptionHandler(v *repository.VIPCodeRepo, p *repository.ProfileRepo, m *service.Mailer, a *repository.AuditLogRepo, events bool) *SubscriptionHandler {
	return &SubscriptionHandler{Codes: v, Profiles: p, Mailer: m, Audit: a, Events: events}
}

type generateCodeReq struct {
	Email string `json:"email"`
}
type redeemReq struct {
	Code string `json:"code"`
}

// GenerateCode creates a single-use code and emails it to the given
// address. Admin only.
func (h *SubscriptionHandler) GenerateCode(c echo.Context) error {
	var req generateCodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	}

	code, err := utils.NewVIPCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate code failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	expiresAt := time.Now().UTC().Add(vipCodeTTL)
	v, err := h.Codes.Create(ctx, code, email, expiresAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save code failed"})
	}

	// Email delivery is best-effort; the code is returned either way.
	mailErr := h.Mailer.SendVIPCode(ctx, email, code, expiresAt)

	h.audit(c, "vip_code_generated", echo.Map{"email": email, "expires_at": expiresAt})

	return c.JSON(http.StatusCreated, echo.Map{
		"code":       v,
		"email_sent": mailErr == nil,
	})
}

// Status reports the caller's subscription state.
func (h *SubscriptionHandler) Status(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, currentUserID(c))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}

	active := p.IsPremium
	if p.SubscriptionEndDate != nil && p.SubscriptionEndDate.Before(time.Now().UTC()) {
		active = false
	}
	return c.JSON(http.StatusOK, echo.Map{
		"role":                  p.Role,
		"is_premium":            p.IsPremium,
		"active":                active,
		"subscription_end_date": p.SubscriptionEndDate,
	})
}

type sendVIPEmailReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SendVIPEmail re-sends a code email without minting a new code.
// Admin only.
func (h *SubscriptionHandler) SendVIPEmail(c echo.Context) error {
	var req sendVIPEmailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if len(code) != utils.VIPCodeLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid code required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Mailer.SendVIPCode(ctx, email, code, time.Now().UTC().Add(vipCodeTTL)); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "send email failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"email_sent": true})
}

// Redeem consumes a valid code and upgrades the caller. Every invalid
// case answers the same 400 so codes cannot be probed.
func (h *SubscriptionHandler) Redeem(c echo.Context) error {
	var req redeemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if len(code) != utils.VIPCodeLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired code"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid := currentUserID(c)
	p, err := h.Codes.Redeem(ctx, code, uid)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "redeem failed"})
	}

	h.audit(c, "vip_code_redeemed", echo.Map{"subscription_end_date": p.SubscriptionEndDate})

	if h.Events {
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pubCancel()
			_ = service.PublishEngagement(pubCtx, queue.EngagementEvent{
				Kind:        queue.KindVIPGranted,
				RecipientID: uid,
				OccurredAt:  time.Now().UTC().Format(time.RFC3339),
			})
		}()
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": p})
}

func (h *SubscriptionHandler) audit(c echo.Context, action string, details echo.Map) {
	if h.Audit == nil {
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, _ := json.Marshal(details)
	_, _ = h.Audit.Insert(ctx, currentUserID(c), action, string(b), clientIP(c))
}
