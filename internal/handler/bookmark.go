package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/queue"
	"github.com/hekayaty/hekayaty-server/internal/repository"
	"github.com/hekayaty/hekayaty-server/internal/service"
)

// BookmarkHandler manages the caller's reading list.
type BookmarkHandler struct {
	Bookmarks *repository.BookmarkRepo
	Stories   *repository.StoryRepo
	Profiles  *repository.ProfileRepo
	Events    bool
}

func NewBookmarkHandler(b *repository.BookmarkRepo, s *repository.StoryRepo, p *repository.ProfileRepo, events bool) *BookmarkHandler {
	return &BookmarkHandler{Bookmarks: b, Stories: s, Profiles: p, Events: events}
}

type bookmarkReq struct {
	StoryID uint64 `json:"story_id"`
}

// Add bookmarks a story, identified by the path on the nested route or
// by the body on the flat one. Bookmarking twice answers 400, matching
// the client's expectations.
func (h *BookmarkHandler) Add(c echo.Context) error {
	var storyID uint64
	if c.Param("id") != "" {
		var ok bool
		storyID, ok = parseID(c, "id")
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
		}
	} else {
		var req bookmarkReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		storyID = req.StoryID
	}
	if storyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "story_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	story, err := h.Stories.GetByID(ctx, storyID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "story not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load story failed"})
	}

	uid := currentUserID(c)
	b, err := h.Bookmarks.Create(ctx, uid, storyID)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Already bookmarked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save bookmark failed"})
	}

	if h.Events && story.AuthorID != uid {
		h.publishBookmarked(c, story.AuthorID, uid, storyID, story.Title)
	}
	return c.JSON(http.StatusCreated, echo.Map{"bookmark": b})
}

// Remove deletes the caller's bookmark for a story.
func (h *BookmarkHandler) Remove(c echo.Context) error {
	storyID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Bookmarks.Delete(ctx, currentUserID(c), storyID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bookmark not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete bookmark failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns the caller's bookmarks with the stories embedded.
func (h *BookmarkHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Bookmarks.ListByUser(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookmarks failed"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *BookmarkHandler) publishBookmarked(c echo.Context, authorID, readerID, storyID uint64, title string) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	username := ""
	if p, err := h.Profiles.GetPublic(ctx, readerID); err == nil {
		username = p.Username
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = service.PublishEngagement(pubCtx, queue.EngagementEvent{
			Kind:          queue.KindBookmarkAdded,
			RecipientID:   authorID,
			ActorID:       readerID,
			ActorUsername: username,
			StoryID:       storyID,
			StoryTitle:    title,
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}()
}
