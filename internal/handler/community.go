package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// CommunityHandler covers workshops, their posts and the hall of
// quills competition archive.
type CommunityHandler struct {
	Workshops    *repository.WorkshopRepo
	Competitions *repository.CompetitionRepo
}

func NewCommunityHandler(w *repository.WorkshopRepo, comp *repository.CompetitionRepo) *CommunityHandler {
	return &CommunityHandler{Workshops: w, Competitions: comp}
}

// ListWorkshops returns workshops newest-first; ?owner= filters by
// owner id.
func (h *CommunityHandler) ListWorkshops(c echo.Context) error {
	limit, _ := parseLimitOffset(c, 50)
	var ownerID uint64
	if v := c.QueryParam("owner"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid owner id"})
		}
		ownerID = id
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Workshops.ListWorkshops(ctx, ownerID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list workshops failed"})
	}
	return c.JSON(http.StatusOK, items)
}

type workshopCreateReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// CreateWorkshop opens a workshop owned by the caller.
func (h *CommunityHandler) CreateWorkshop(c echo.Context) error {
	var req workshopCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	w := model.Workshop{
		OwnerID:     currentUserID(c),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    req.Category,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Workshops.CreateWorkshop(ctx, &w); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create workshop failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"workshop": w})
}

// ListPosts returns community posts; ?workshop= scopes to one
// workshop.
func (h *CommunityHandler) ListPosts(c echo.Context) error {
	limit, _ := parseLimitOffset(c, 50)
	var workshopID uint64
	if v := c.QueryParam("workshop"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid workshop id"})
		}
		workshopID = id
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Workshops.ListPosts(ctx, workshopID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list posts failed"})
	}
	return c.JSON(http.StatusOK, items)
}

type postCreateReq struct {
	WorkshopID uint64 `json:"workshop_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// CreatePost adds a post inside a workshop.
func (h *CommunityHandler) CreatePost(c echo.Context) error {
	var req postCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.WorkshopID == 0 || strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "workshop_id, title and content required"})
	}

	p := model.Post{
		WorkshopID: req.WorkshopID,
		AuthorID:   currentUserID(c),
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Workshops.CreatePost(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"post": p})
}

// ListCompetitions returns the hall of quills archive.
func (h *CommunityHandler) ListCompetitions(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Competitions.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list competitions failed"})
	}
	return c.JSON(http.StatusOK, items)
}

type competitionCreateReq struct {
	Name       string  `json:"name"`
	WinnerName string  `json:"winner_name"`
	StoryTitle string  `json:"story_title"`
	WinnerID   *uint64 `json:"winner_id"`
}

// CreateCompetition records a competition result. Admin only.
func (h *CommunityHandler) CreateCompetition(c echo.Context) error {
	var req competitionCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.WinnerName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and winner_name required"})
	}

	comp := model.Competition{
		Name:       strings.TrimSpace(req.Name),
		WinnerName: strings.TrimSpace(req.WinnerName),
		StoryTitle: req.StoryTitle,
		WinnerID:   req.WinnerID,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Competitions.Create(ctx, &comp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create competition failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"competition": comp})
}
