package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// suspiciousActions is the watched subset of audit actions.
var suspiciousActions = []string{"failed_login", "account_locked", "suspicious_upload"}

// SecurityHandler serves the admin security monitoring endpoints on
// top of the audit log.
type SecurityHandler struct {
	Audit *repository.AuditLogRepo
}

func NewSecurityHandler(a *repository.AuditLogRepo) *SecurityHandler { return &SecurityHandler{Audit: a} }

// ListAuditLogs returns audit rows newest-first with pagination.
func (h *SecurityHandler) ListAuditLogs(c echo.Context) error {
	limit, offset := parseLimitOffset(c, 50)

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Audit.List(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list audit logs failed"})
	}
	return c.JSON(http.StatusOK, rows)
}

type auditCreateReq struct {
	Action  string `json:"action"`
	Details string `json:"details"`
	UserID  uint64 `json:"user_id"`
}

// CreateAuditLog inserts an audit row by hand, for events detected
// outside the server.
func (h *SecurityHandler) CreateAuditLog(c echo.Context) error {
	var req auditCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Action == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action required"})
	}
	if req.UserID == 0 {
		req.UserID = currentUserID(c)
	}
	if req.Details == "" {
		req.Details = "{}"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	row, err := h.Audit.Insert(ctx, req.UserID, req.Action, req.Details, clientIP(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create audit log failed"})
	}
	return c.JSON(http.StatusCreated, row)
}

// SuspiciousActivity returns watched actions from a trailing window;
// ?hours=<n> sizes it, default 24, max 30 days.
func (h *SecurityHandler) SuspiciousActivity(c echo.Context) error {
	hours := 24
	if v := c.QueryParam("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 720 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hours must be 1-720"})
		}
		hours = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	rows, err := h.Audit.ListSuspicious(ctx, since, suspiciousActions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load suspicious activity failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"since":  since,
		"count":  len(rows),
		"events": rows,
	})
}

// ipSummary groups recent audit rows per IP address.
type ipSummary struct {
	IPAddress string           `json:"ip_address"`
	Count     int              `json:"count"`
	LastSeen  time.Time        `json:"last_seen"`
	Actions   map[string]int   `json:"actions"`
	Events    []model.AuditLog `json:"events"`
}

// IPMonitoring folds the latest 100 IP-bearing rows into per-IP
// summaries, grouped in memory at read time.
func (h *SecurityHandler) IPMonitoring(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Audit.RecentWithIP(ctx, 100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load ip activity failed"})
	}

	byIP := map[string]*ipSummary{}
	order := []string{}
	for _, row := range rows {
		s, ok := byIP[row.IPAddress]
		if !ok {
			s = &ipSummary{IPAddress: row.IPAddress, Actions: map[string]int{}}
			byIP[row.IPAddress] = s
			order = append(order, row.IPAddress)
		}
		s.Count++
		s.Actions[row.Action]++
		if row.CreatedAt.After(s.LastSeen) {
			s.LastSeen = row.CreatedAt
		}
		s.Events = append(s.Events, row)
	}

	out := make([]ipSummary, 0, len(order))
	for _, ip := range order {
		out = append(out, *byIP[ip])
	}
	return c.JSON(http.StatusOK, out)
}
