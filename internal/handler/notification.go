package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// NotificationHandler serves the caller's notification feed.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: n}
}

// List returns notifications newest-first; ?unread=true narrows to
// unread ones.
func (h *NotificationHandler) List(c echo.Context) error {
	limit, _ := parseLimitOffset(c, 50)
	unreadOnly := false
	if v := c.QueryParam("unread"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unread must be true or false"})
		}
		unreadOnly = b
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Notifications.ListByUser(ctx, currentUserID(c), limit, unreadOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list notifications failed"})
	}
	return c.JSON(http.StatusOK, items)
}

type notificationCreateReq struct {
	UserID  uint64 `json:"user_id"`
	Content string `json:"content"`
}

// Create inserts a notification directly, bypassing the broker. The
// recipient defaults to the caller.
func (h *NotificationHandler) Create(c echo.Context) error {
	var req notificationCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	if req.UserID == 0 {
		req.UserID = currentUserID(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Notifications.Create(ctx, req.UserID, req.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create notification failed"})
	}
	return c.JSON(http.StatusCreated, n)
}

// MarkRead flags one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Notifications.MarkRead(ctx, id, currentUserID(c))
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your notification"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update notification failed"})
	}
	return c.JSON(http.StatusOK, n)
}
