package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// SearchHandler fans one query out across stories, comics and
// profiles.
type SearchHandler struct {
	Stories  *repository.StoryRepo
	Comics   *repository.ComicRepo
	Profiles *repository.ProfileRepo
}

func NewSearchHandler(s *repository.StoryRepo, co *repository.ComicRepo, p *repository.ProfileRepo) *SearchHandler {
	return &SearchHandler{Stories: s, Comics: co, Profiles: p}
}

// Search runs the substring match per entity. ?type= narrows to
// stories, comics or users; "all" or an empty type returns all three.
func (h *SearchHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q required"})
	}
	kind := strings.ToLower(c.QueryParam("type"))
	if kind == "all" {
		kind = ""
	}
	limit, _ := parseLimitOffset(c, 20)

	ctx, cancel := reqCtx(c)
	defer cancel()

	out := echo.Map{"query": q}

	if kind == "" || kind == "stories" {
		stories, err := h.Stories.Search(ctx, q, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search stories failed"})
		}
		out["stories"] = stories
	}
	if kind == "" || kind == "comics" {
		comics, err := h.Comics.Search(ctx, q, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search comics failed"})
		}
		out["comics"] = comics
	}
	if kind == "" || kind == "users" {
		users, err := h.Profiles.Search(ctx, q, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search users failed"})
		}
		out["users"] = users
	}
	if len(out) == 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be stories, comics or users"})
	}
	return c.JSON(http.StatusOK, out)
}
