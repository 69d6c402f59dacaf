package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// StoryHandler covers the story catalog and the owner's CRUD surface.
type StoryHandler struct {
	Stories  *repository.StoryRepo
	Profiles *repository.ProfileRepo
}

func NewStoryHandler(s *repository.StoryRepo, p *repository.ProfileRepo) *StoryHandler {
	return &StoryHandler{Stories: s, Profiles: p}
}

type storyCreateReq struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Content      string `json:"content"`
	CoverImage   string `json:"cover_image"`
	PDFURL       string `json:"pdf_url"`
	Placement    string `json:"placement"`
	Genre        string `json:"genre"`
	IsPremium    bool   `json:"is_premium"`
	IsShortStory bool   `json:"is_short_story"`
	IsPublished  bool   `json:"is_published"`
}

type storyUpdateReq struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Content      *string `json:"content"`
	CoverImage   *string `json:"cover_image"`
	Placement    *string `json:"placement"`
	Genre        *string `json:"genre"`
	IsPremium    *bool   `json:"is_premium"`
	IsShortStory *bool   `json:"is_short_story"`
	IsPublished  *bool   `json:"is_published"`
}

// List returns published stories. ?premium= and ?short= narrow the
// shelf; both accept true/false.
func (h *StoryHandler) List(c echo.Context) error {
	limit, offset := parseLimitOffset(c, 20)
	f := repository.StoryFilter{Limit: limit, Offset: offset}
	if v := c.QueryParam("premium"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "premium must be true or false"})
		}
		f.Premium = &b
	}
	if v := c.QueryParam("short"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "short must be true or false"})
		}
		f.ShortStory = &b
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	stories, err := h.Stories.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list stories failed"})
	}
	return c.JSON(http.StatusOK, stories)
}

// Shelf returns a handler serving one curated shelf (special, gems,
// workshops) by placement tag, newest first.
func (h *StoryHandler) Shelf(placement string) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, _ := parseLimitOffset(c, 10)

		ctx, cancel := reqCtx(c)
		defer cancel()

		stories, err := h.Stories.ListByPlacement(ctx, placement, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list stories failed"})
		}
		return c.JSON(http.StatusOK, stories)
	}
}

// Get returns one story. Premium stories hide their body from readers
// without an active subscription; the author and admins always see it.
func (h *StoryHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Stories.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "story not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load story failed"})
	}

	uid := currentUserID(c)
	if !s.IsPublished && uid != s.AuthorID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "story not found"})
	}
	if s.IsPremium && !h.canReadPremium(c, s) {
		s.Content = ""
		s.PDFURL = ""
		return c.JSON(http.StatusOK, echo.Map{"story": s, "premium_locked": true})
	}
	return c.JSON(http.StatusOK, echo.Map{"story": s})
}

func (h *StoryHandler) canReadPremium(c echo.Context, s model.Story) bool {
	uid := currentUserID(c)
	if uid == s.AuthorID && uid != 0 {
		return true
	}
	role, _ := c.Get("role").(string)
	return role == model.RoleVIP || role == model.RoleAdmin
}

// Create inserts a story owned by the caller.
func (h *StoryHandler) Create(c echo.Context) error {
	var req storyCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	s := model.Story{
		AuthorID:     currentUserID(c),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Content:      req.Content,
		CoverImage:   req.CoverImage,
		PDFURL:       req.PDFURL,
		Placement:    req.Placement,
		Genre:        req.Genre,
		IsPremium:    req.IsPremium,
		IsShortStory: req.IsShortStory,
		IsPublished:  req.IsPublished,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Stories.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create story failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"story": s})
}

// Update merges owner-editable fields after an ownership check.
func (h *StoryHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	var req storyUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	if !h.requireOwner(c, id) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Stories.Update(ctx, id, repository.StoryUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Content:      req.Content,
		CoverImage:   req.CoverImage,
		Placement:    req.Placement,
		Genre:        req.Genre,
		IsPremium:    req.IsPremium,
		IsShortStory: req.IsShortStory,
		IsPublished:  req.IsPublished,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update story failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"story": s})
}

// Publish flips the draft flag.
func (h *StoryHandler) Publish(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	if !h.requireOwner(c, id) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Stories.Publish(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "publish story failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"story": s})
}

// Delete removes the story; chapters, ratings and bookmarks follow via
// foreign keys.
func (h *StoryHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	if !h.requireOwner(c, id) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Stories.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "story not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete story failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// requireOwner answers 404 for unknown stories and 403 when the caller
// is neither the author nor an admin. Returns true when allowed; on
// denial the response has already been written.
func (h *StoryHandler) requireOwner(c echo.Context, storyID uint64) bool {
	ctx, cancel := reqCtx(c)
	defer cancel()

	authorID, err := h.Stories.AuthorID(ctx, storyID)
	if err != nil {
		if err == repository.ErrNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "story not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "load story failed"})
		}
		return false
	}
	uid := currentUserID(c)
	role, _ := c.Get("role").(string)
	if uid != authorID && role != model.RoleAdmin {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "not your story"})
		return false
	}
	return true
}
