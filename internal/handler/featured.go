package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// FeaturedHandler serves the curated shelves and lets admins flip the
// featured flags.
type FeaturedHandler struct {
	Stories *repository.StoryRepo
	Comics  *repository.ComicRepo
	Audit   *repository.AuditLogRepo
}

func NewFeaturedHandler(s *repository.StoryRepo, co *repository.ComicRepo, a *repository.AuditLogRepo) *FeaturedHandler {
	return &FeaturedHandler{Stories: s, Comics: co, Audit: a}
}

// List returns the featured content. ?type=stories|comics narrows to
// one kind; the default is both.
func (h *FeaturedHandler) List(c echo.Context) error {
	limit, _ := parseLimitOffset(c, 10)
	kind := c.QueryParam("type")

	ctx, cancel := reqCtx(c)
	defer cancel()

	out := echo.Map{}
	if kind == "" || kind == "stories" {
		stories, err := h.Stories.ListFeatured(ctx, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list featured stories failed"})
		}
		out["stories"] = stories
	}
	if kind == "" || kind == "comics" {
		comics, err := h.Comics.ListFeatured(ctx, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list featured comics failed"})
		}
		out["comics"] = comics
	}
	if len(out) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be stories or comics"})
	}
	return c.JSON(http.StatusOK, out)
}

// Feature marks a story or comic as featured. Admin only; the change
// is audited.
func (h *FeaturedHandler) Feature(c echo.Context) error {
	return h.setFeatured(c, true)
}

// Unfeature clears the featured flag. Admin only.
func (h *FeaturedHandler) Unfeature(c echo.Context) error {
	return h.setFeatured(c, false)
}

func (h *FeaturedHandler) setFeatured(c echo.Context, featured bool) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	switch c.Param("type") {
	case "stories":
		s, err := h.Stories.SetFeatured(ctx, id, featured)
		if err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "story not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update story failed"})
		}
		h.audit(c, "featured_story", echo.Map{"story_id": id, "featured": featured})
		return c.JSON(http.StatusOK, echo.Map{"story": s})
	case "comics":
		comic, err := h.Comics.SetFeatured(ctx, id, featured)
		if err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "comic not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update comic failed"})
		}
		h.audit(c, "featured_comic", echo.Map{"comic_id": id, "featured": featured})
		return c.JSON(http.StatusOK, echo.Map{"comic": comic})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be stories or comics"})
	}
}

func (h *FeaturedHandler) audit(c echo.Context, action string, details echo.Map) {
	if h.Audit == nil {
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, _ := json.Marshal(details)
	_, _ = h.Audit.Insert(ctx, currentUserID(c), action, string(b), clientIP(c))
}
