package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// AnalyticsHandler serves the admin dashboard blocks.
type AnalyticsHandler struct {
	Profiles *repository.ProfileRepo
	Stories  *repository.StoryRepo
	Comics   *repository.ComicRepo
}

func NewAnalyticsHandler(p *repository.ProfileRepo, s *repository.StoryRepo, co *repository.ComicRepo) *AnalyticsHandler {
	return &AnalyticsHandler{Profiles: p, Stories: s, Comics: co}
}

func (h *AnalyticsHandler) totals(ctx context.Context) (echo.Map, error) {
	users, err := h.Profiles.Count(ctx)
	if err != nil {
		return nil, err
	}
	premium, err := h.Profiles.CountPremium(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := h.Profiles.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	stories, err := h.Stories.Count(ctx)
	if err != nil {
		return nil, err
	}
	published, err := h.Stories.CountPublished(ctx)
	if err != nil {
		return nil, err
	}
	comics, err := h.Comics.Count(ctx)
	if err != nil {
		return nil, err
	}
	return echo.Map{
		"total_users":       users,
		"premium_users":     premium,
		"admin_users":       admins,
		"total_stories":     stories,
		"published_stories": published,
		"total_comics":      comics,
	}, nil
}

// Metrics returns the platform totals plus a growth window;
// ?period=<days> sizes the window, default 30.
func (h *AnalyticsHandler) Metrics(c echo.Context) error {
	days := 30
	if v := c.QueryParam("period"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "period must be 1-365 days"})
		}
		days = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.totals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load metrics failed"})
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	newUsers, err := h.Profiles.CountCreatedSince(ctx, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count new users failed"})
	}
	newStories, err := h.Stories.CountCreatedSince(ctx, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count new stories failed"})
	}
	out["window"] = echo.Map{
		"days":        days,
		"new_users":   newUsers,
		"new_stories": newStories,
	}
	return c.JSON(http.StatusOK, out)
}

// Dashboard bundles the totals with the latest stories for the admin
// landing view.
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.totals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load dashboard failed"})
	}
	recent, err := h.Stories.RecentWithAuthor(ctx, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load activity failed"})
	}
	out["recent_stories"] = recent
	return c.JSON(http.StatusOK, out)
}

// RecentActivity lists the newest stories with author names.
func (h *AnalyticsHandler) RecentActivity(c echo.Context) error {
	limit, _ := parseLimitOffset(c, 20)

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Stories.RecentWithAuthor(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load activity failed"})
	}
	return c.JSON(http.StatusOK, rows)
}

// TopRated lists published stories ranked by average rating.
func (h *AnalyticsHandler) TopRated(c echo.Context) error {
	limit, _ := parseLimitOffset(c, 10)

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Stories.TopRated(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load top rated failed"})
	}
	return c.JSON(http.StatusOK, rows)
}
