package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// CreatorHandler serves the creators directory and the hall-of-quills
// active writers leaderboard.
type CreatorHandler struct {
	Profiles *repository.ProfileRepo
	Stories  *repository.StoryRepo
	Comics   *repository.ComicRepo
}

func NewCreatorHandler(p *repository.ProfileRepo, s *repository.StoryRepo, co *repository.ComicRepo) *CreatorHandler {
	return &CreatorHandler{Profiles: p, Stories: s, Comics: co}
}

// creatorCard is a public profile enriched with content counts.
type creatorCard struct {
	repository.PublicProfile
	StoryCount int64 `json:"story_count"`
	ComicCount int64 `json:"comic_count"`
}

// List returns creator cards with their story and comic counts.
func (h *CreatorHandler) List(c echo.Context) error {
	limit, offset := parseLimitOffset(c, 20)

	ctx, cancel := reqCtx(c)
	defer cancel()

	profiles, err := h.Profiles.ListPublic(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list creators failed"})
	}

	cards := make([]creatorCard, 0, len(profiles))
	for _, p := range profiles {
		stories, err := h.Stories.CountByAuthor(ctx, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count stories failed"})
		}
		comics, err := h.Comics.CountByAuthor(ctx, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count comics failed"})
		}
		cards = append(cards, creatorCard{PublicProfile: p, StoryCount: stories, ComicCount: comics})
	}
	return c.JSON(http.StatusOK, cards)
}

// Top ranks creators by combined story and comic count. There is no
// precomputed ranking, so this scans a bounded page of profiles and
// sorts the cards in memory.
func (h *CreatorHandler) Top(c echo.Context) error {
	limit, _ := parseLimitOffset(c, 10)

	ctx, cancel := reqCtx(c)
	defer cancel()

	profiles, err := h.Profiles.ListPublic(ctx, 100, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list creators failed"})
	}

	cards := make([]creatorCard, 0, len(profiles))
	for _, p := range profiles {
		stories, err := h.Stories.CountByAuthor(ctx, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count stories failed"})
		}
		comics, err := h.Comics.CountByAuthor(ctx, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count comics failed"})
		}
		cards = append(cards, creatorCard{PublicProfile: p, StoryCount: stories, ComicCount: comics})
	}
	sort.Slice(cards, func(i, j int) bool {
		ti, tj := cards[i].StoryCount+cards[i].ComicCount, cards[j].StoryCount+cards[j].ComicCount
		if ti != tj {
			return ti > tj
		}
		return cards[i].ID < cards[j].ID
	})
	if len(cards) > limit {
		cards = cards[:limit]
	}
	return c.JSON(http.StatusOK, cards)
}

// leaderboardEntry is one ranked author on the active writers board.
type leaderboardEntry struct {
	repository.PublicProfile
	PublishedStories int `json:"published_stories"`
}

// Leaderboard folds every published story's author id in memory, ranks
// authors by count and resolves the top profiles.
func (h *CreatorHandler) Leaderboard(c echo.Context) error {
	limit, _ := parseLimitOffset(c, 10)

	ctx, cancel := reqCtx(c)
	defer cancel()

	authorIDs, err := h.Stories.PublishedAuthorIDs(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stories failed"})
	}

	counts := map[uint64]int{}
	for _, id := range authorIDs {
		counts[id]++
	}
	type pair struct {
		id uint64
		n  int
	}
	ranked := make([]pair, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, pair{id, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].n != ranked[j].n {
			return ranked[i].n > ranked[j].n
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]leaderboardEntry, 0, len(ranked))
	for _, r := range ranked {
		p, err := h.Profiles.GetPublic(ctx, r.id)
		if err != nil {
			// Author may have been deleted between the fold and the lookup.
			if err == repository.ErrNotFound {
				continue
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
		}
		out = append(out, leaderboardEntry{PublicProfile: p, PublishedStories: r.n})
	}
	return c.JSON(http.StatusOK, out)
}
