package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// ProfileHandler covers self-service profile editing and the public
// profile card.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(p *repository.ProfileRepo) *ProfileHandler { return &ProfileHandler{Profiles: p} }

type profileUpdateReq struct {
	Username  *string `json:"username"`
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// GetPublic returns the sanitized card for any profile.
func (h *ProfileHandler) GetPublic(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid profile id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Profiles.GetPublic(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// requireSelf rejects requests where the :id path parameter names
// anyone but the caller. Routes without the parameter pass. Returns
// true when allowed; on denial the response has already been written.
func requireSelf(c echo.Context) bool {
	if c.Param("id") == "" {
		return true
	}
	id, ok := parseID(c, "id")
	if !ok {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid profile id"})
		return false
	}
	if id != currentUserID(c) {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "not your profile"})
		return false
	}
	return true
}

// UpdateMe merges the caller's editable fields. Mounted both on /me
// and on /profiles/:id for the caller's own id.
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	if !requireSelf(c) {
		return nil
	}
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username cannot be empty"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Profiles.Update(ctx, currentUserID(c), repository.ProfileUpdate{
		Username:  req.Username,
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if err == repository.ErrUsernameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// UpgradePremium marks the caller vip/premium (self-service upgrade).
func (h *ProfileHandler) UpgradePremium(c echo.Context) error {
	if !requireSelf(c) {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Profiles.UpgradePremium(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upgrade failed"})
	}
	return c.JSON(http.StatusOK, p)
}
