package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// ComicHandler covers the comic catalog.
type ComicHandler struct {
	Comics *repository.ComicRepo
}

func NewComicHandler(r *repository.ComicRepo) *ComicHandler { return &ComicHandler{Comics: r} }

type comicCreateReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
	IsPremium   bool   `json:"is_premium"`
	IsPublished bool   `json:"is_published"`
}

// List returns published comics newest-first.
func (h *ComicHandler) List(c echo.Context) error {
	limit, offset := parseLimitOffset(c, 20)

	ctx, cancel := reqCtx(c)
	defer cancel()

	comics, err := h.Comics.List(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list comics failed"})
	}
	return c.JSON(http.StatusOK, comics)
}

// Create inserts a comic owned by the caller.
func (h *ComicHandler) Create(c echo.Context) error {
	var req comicCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	comic := model.Comic{
		AuthorID:    currentUserID(c),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		CoverURL:    req.CoverURL,
		IsPremium:   req.IsPremium,
		IsPublished: req.IsPublished,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Comics.Create(ctx, &comic); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comic failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"comic": comic})
}
