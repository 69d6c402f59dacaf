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

// RatingHandler writes ratings, recomputes the story's aggregate and
// lists a story's reviews.
type RatingHandler struct {
	Ratings  *repository.RatingRepo
	Stories  *repository.StoryRepo
	Profiles *repository.ProfileRepo
	Events   bool // publish engagement events to the broker
}

func NewRatingHandler(r *repository.RatingRepo, s *repository.StoryRepo, p *repository.ProfileRepo, events bool) *RatingHandler {
	return &RatingHandler{Ratings: r, Stories: s, Profiles: p, Events: events}
}

type rateReq struct {
	StoryID uint64 `json:"story_id"`
	Rating  int    `json:"rating"`
	Review  string `json:"review"`
}

// Rate upserts the caller's rating and recomputes the story mean from
// all rating rows. The story id comes from the path on the nested
// route or from the body on the flat one. The recompute is not
// serialized against concurrent raters; see the repository note.
func (h *RatingHandler) Rate(c echo.Context) error {
	var req rateReq
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
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
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
	rating, err := h.Ratings.Upsert(ctx, uid, storyID, req.Rating, req.Review)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save rating failed"})
	}

	values, err := h.Ratings.Values(ctx, storyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load ratings failed"})
	}
	avg := averageOf(values)
	if err := h.Stories.UpdateRatingStats(ctx, storyID, avg, len(values)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update story failed"})
	}

	if h.Events && story.AuthorID != uid {
		h.publishRated(c, story.AuthorID, uid, storyID, story.Title, req.Rating)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"rating":         rating,
		"average_rating": avg,
		"rating_count":   len(values),
	})
}

// ListByStory returns a story's reviews with rater cards.
func (h *RatingHandler) ListByStory(c echo.Context) error {
	storyID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ratings, err := h.Ratings.ListByStory(ctx, storyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list ratings failed"})
	}
	return c.JSON(http.StatusOK, ratings)
}

func (h *RatingHandler) publishRated(c echo.Context, authorID, raterID, storyID uint64, title string, rating int) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	username := ""
	if p, err := h.Profiles.GetPublic(ctx, raterID); err == nil {
		username = p.Username
	}
	// Fire and forget; a broker outage must not fail the rating.
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = service.PublishEngagement(pubCtx, queue.EngagementEvent{
			Kind:          queue.KindRatingReceived,
			RecipientID:   authorID,
			ActorID:       raterID,
			ActorUsername: username,
			StoryID:       storyID,
			StoryTitle:    title,
			Rating:        rating,
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}()
}
