package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// ChapterHandler serves a story's chapter list and lets the author
// append chapters.
type ChapterHandler struct {
	Chapters *repository.ChapterRepo
	Stories  *repository.StoryRepo
}

func NewChapterHandler(ch *repository.ChapterRepo, s *repository.StoryRepo) *ChapterHandler {
	return &ChapterHandler{Chapters: ch, Stories: s}
}

type chapterCreateReq struct {
	StoryID      uint64 `json:"story_id"`
	ChapterTitle string `json:"chapter_title"`
	ChapterOrder int    `json:"chapter_order"`
	ContentURL   string `json:"content_url"`
	ContentType  string `json:"content_type"`
	IsPublished  bool   `json:"is_published"`
}

// List returns a story's chapters in reading order.
func (h *ChapterHandler) List(c echo.Context) error {
	storyID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	chapters, err := h.Chapters.ListByStory(ctx, storyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list chapters failed"})
	}
	return c.JSON(http.StatusOK, chapters)
}

// Create appends a chapter. The story id comes from the path on the
// nested route or from the body on the flat one. Only the story's
// author may add chapters; a taken chapter_order answers 409.
func (h *ChapterHandler) Create(c echo.Context) error {
	var req chapterCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	storyID := req.StoryID
	if c.Param("id") != "" {
		var ok bool
		storyID, ok = parseID(c, "id")
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
		}
	}
	if storyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "story_id required"})
	}
	if strings.TrimSpace(req.ChapterTitle) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "chapter_title required"})
	}
	if req.ChapterOrder < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "chapter_order must be positive"})
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if contentType == "" {
		contentType = "text"
	}
	if contentType != "text" && contentType != "pdf" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content_type must be text or pdf"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	authorID, err := h.Stories.AuthorID(ctx, storyID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "story not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load story failed"})
	}
	if currentUserID(c) != authorID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your story"})
	}

	ch := model.Chapter{
		StoryID:      storyID,
		ChapterTitle: strings.TrimSpace(req.ChapterTitle),
		ChapterOrder: req.ChapterOrder,
		ContentURL:   req.ContentURL,
		ContentType:  contentType,
		IsPublished:  req.IsPublished,
	}
	if err := h.Chapters.Create(ctx, &ch); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "chapter order already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create chapter failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"chapter": ch})
}
