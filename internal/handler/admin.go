package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// AdminHandler covers user administration: listing, bans and role
// changes. Mutations land in the audit log.
type AdminHandler struct {
	Profiles *repository.ProfileRepo
	Audit    *repository.AuditLogRepo
}

func NewAdminHandler(p *repository.ProfileRepo, a *repository.AuditLogRepo) *AdminHandler {
	return &AdminHandler{Profiles: p, Audit: a}
}

// ListUsers returns full profiles newest-first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, offset := parseLimitOffset(c, 50)

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Profiles.List(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	return c.JSON(http.StatusOK, users)
}

type banReq struct {
	Banned bool   `json:"banned"`
	Reason string `json:"reason"`
}

// SetBan bans or unbans a user. Admins cannot ban themselves.
func (h *AdminHandler) SetBan(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == currentUserID(c) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot ban yourself"})
	}
	var req banReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Profiles.GetByID(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	p, err := h.Profiles.SetBan(ctx, id, req.Banned, req.Reason)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}

	action := "user_unbanned"
	if req.Banned {
		action = "user_banned"
	}
	h.audit(c, action, echo.Map{"target_user_id": id, "reason": req.Reason})
	return c.JSON(http.StatusOK, p)
}

type roleReq struct {
	Role string `json:"role"`
}

// SetRole changes a user's role; is_premium follows the vip role.
func (h *AdminHandler) SetRole(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Role {
	case model.RoleFree, model.RoleVIP, model.RoleAdmin:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be free, vip or admin"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Profiles.GetByID(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	p, err := h.Profiles.SetRole(ctx, id, req.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	h.audit(c, "role_changed", echo.Map{"target_user_id": id, "role": req.Role})
	return c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) audit(c echo.Context, action string, details echo.Map) {
	if h.Audit == nil {
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, _ := json.Marshal(details)
	_, _ = h.Audit.Insert(ctx, currentUserID(c), action, string(b), clientIP(c))
}
