package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// CharacterHandler covers the legendary-characters gallery. Reading
// and creating are open to authenticated users; edits and deletes are
// registered behind the admin guard.
type CharacterHandler struct {
	Characters *repository.CharacterRepo
}

func NewCharacterHandler(r *repository.CharacterRepo) *CharacterHandler {
	return &CharacterHandler{Characters: r}
}

type characterCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	StoryTitle  string `json:"story_title"`
}

type characterUpdateReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	StoryTitle  *string `json:"story_title"`
}

// List returns the gallery newest-first.
func (h *CharacterHandler) List(c echo.Context) error {
	limit, _ := parseLimitOffset(c, 50)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Characters.List(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list characters failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one character entry.
func (h *CharacterHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid character id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ch, err := h.Characters.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "character not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load character failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"character": ch})
}

// Create adds a character entry.
func (h *CharacterHandler) Create(c echo.Context) error {
	var req characterCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ch := model.Character{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		StoryTitle:  req.StoryTitle,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Characters.Create(ctx, &ch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create character failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"character": ch})
}

// Update merges the provided fields.
func (h *CharacterHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid character id"})
	}
	var req characterUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Characters.GetByID(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "character not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load character failed"})
	}

	ch, err := h.Characters.Update(ctx, id, repository.CharacterUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		StoryTitle:  req.StoryTitle,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update character failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"character": ch})
}

// Delete removes a character entry.
func (h *CharacterHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid character id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Characters.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "character not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete character failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
