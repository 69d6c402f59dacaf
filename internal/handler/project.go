package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// ProjectHandler covers private writing projects. Every operation is
// scoped to the authenticated author.
type ProjectHandler struct {
	Projects *repository.ProjectRepo
}

func NewProjectHandler(r *repository.ProjectRepo) *ProjectHandler { return &ProjectHandler{Projects: r} }

type projectCreateReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Status      string `json:"status"`
}

type projectUpdateReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Status      *string `json:"status"`
}

// List returns the caller's projects.
func (h *ProjectHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Projects.ListByAuthor(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list projects failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Create starts a project owned by the caller.
func (h *ProjectHandler) Create(c echo.Context) error {
	var req projectCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	p := model.Project{
		AuthorID:    currentUserID(c),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Content:     req.Content,
		Status:      req.Status,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Projects.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create project failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"project": p})
}

// Get returns one of the caller's projects.
func (h *ProjectHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
	}
	if p.AuthorID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your project"})
	}
	return c.JSON(http.StatusOK, echo.Map{"project": p})
}

// Update merges the provided fields after the ownership check.
func (h *ProjectHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var req projectUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !h.requireOwner(c, id) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Projects.Update(ctx, id, repository.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Status:      req.Status,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update project failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"project": p})
}

// Delete removes the caller's project.
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	if !h.requireOwner(c, id) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Projects.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete project failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// requireOwner returns true when the caller owns the project; on
// denial the response has already been written.
func (h *ProjectHandler) requireOwner(c echo.Context, id uint64) bool {
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
		}
		return false
	}
	if p.AuthorID != currentUserID(c) {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "not your project"})
		return false
	}
	return true
}
