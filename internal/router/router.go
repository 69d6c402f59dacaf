// Package router wires handlers onto the Echo instance. Routes are
// split into public, authenticated and admin groups; the Redis cache
// covers public reads and the token bucket covers everything.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/hekayaty/hekayaty-server/internal/config"
	"github.com/hekayaty/hekayaty-server/internal/handler"
	"github.com/hekayaty/hekayaty-server/internal/middleware"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// Handlers collects every handler the routes need.
type Handlers struct {
	Auth          *handler.AuthHandler
	Stories       *handler.StoryHandler
	Chapters      *handler.ChapterHandler
	Comics        *handler.ComicHandler
	Ratings       *handler.RatingHandler
	Bookmarks     *handler.BookmarkHandler
	Profiles      *handler.ProfileHandler
	Subscriptions *handler.SubscriptionHandler
	Notifications *handler.NotificationHandler
	Search        *handler.SearchHandler
	Featured      *handler.FeaturedHandler
	Community     *handler.CommunityHandler
	Characters    *handler.CharacterHandler
	Projects      *handler.ProjectHandler
	Creators      *handler.CreatorHandler
	Admin         *handler.AdminHandler
	Analytics     *handler.AnalyticsHandler
	Security      *handler.SecurityHandler
	Uploads       *handler.UploadHandler
	PDFProxy      *handler.PDFProxyHandler
}

// Register attaches global middleware and every route group.
func Register(e *echo.Echo, cfg config.Config, h Handlers, profiles *repository.ProfileRepo, rdb *redis.Client) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowHeaders:     []string{"authorization", "x-client-info", "apikey", "content-type"},
		AllowMethods:     []string{http.MethodPost, http.MethodGet, http.MethodOptions, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)

	registerAuth(e, h)
	registerPublic(e, cfg, h, rdb)
	registerAuthenticated(e, cfg, h)
	registerAdmin(e, cfg, h, profiles)
}

func registerAuth(e *echo.Echo, h Handlers) {
	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)
}

func registerPublic(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	pub := e.Group("/v1")
	pub.Use(middleware.OptionalJWT(cfg.JWTSecret))
	pub.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	pub.GET("/stories", h.Stories.List)
	pub.GET("/stories/special", h.Stories.Shelf("special"))
	pub.GET("/stories/gems", h.Stories.Shelf("gems"))
	pub.GET("/stories/workshops", h.Stories.Shelf("workshops"))
	pub.GET("/stories/:id", h.Stories.Get)
	pub.GET("/stories/:id/chapters", h.Chapters.List)
	pub.GET("/stories/:id/ratings", h.Ratings.ListByStory)
	pub.GET("/chapters/:id", h.Chapters.List)
	pub.GET("/ratings/:id", h.Ratings.ListByStory)

	pub.GET("/comics", h.Comics.List)
	pub.GET("/featured", h.Featured.List)
	pub.GET("/search", h.Search.Search)

	pub.GET("/profiles/:id", h.Profiles.GetPublic)
	pub.GET("/creators", h.Creators.List)
	pub.GET("/creators/top", h.Creators.Top)
	pub.GET("/hall-of-quills/active", h.Creators.Leaderboard)
	pub.GET("/hall-of-quills/competitions", h.Community.ListCompetitions)

	pub.GET("/community/workshops", h.Community.ListWorkshops)
	pub.GET("/community/posts", h.Community.ListPosts)
	pub.GET("/characters", h.Characters.List)
	pub.GET("/characters/:id", h.Characters.Get)

	pub.GET("/pdf-proxy", h.PDFProxy.Proxy)
}

func registerAuthenticated(e *echo.Echo, cfg config.Config, h Handlers) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))

	auth.GET("/me", h.Auth.Me)
	auth.PUT("/me", h.Profiles.UpdateMe)
	auth.PUT("/profiles/:id", h.Profiles.UpdateMe)
	auth.POST("/profiles/:id/premium", h.Profiles.UpgradePremium)
	auth.POST("/logout", h.Auth.Logout)

	auth.POST("/stories", h.Stories.Create)
	auth.PUT("/stories/:id", h.Stories.Update)
	auth.DELETE("/stories/:id", h.Stories.Delete)
	auth.PUT("/stories/:id/publish", h.Stories.Publish)
	auth.POST("/stories/:id/chapters", h.Chapters.Create)
	auth.POST("/chapters", h.Chapters.Create)

	auth.POST("/stories/:id/rate", h.Ratings.Rate)
	auth.POST("/ratings", h.Ratings.Rate)
	auth.POST("/stories/:id/bookmark", h.Bookmarks.Add)
	auth.DELETE("/stories/:id/bookmark", h.Bookmarks.Remove)
	auth.GET("/bookmarks", h.Bookmarks.List)
	auth.POST("/bookmarks", h.Bookmarks.Add)
	auth.DELETE("/bookmarks/:id", h.Bookmarks.Remove)

	auth.POST("/comics", h.Comics.Create)

	auth.POST("/community/workshops", h.Community.CreateWorkshop)
	auth.POST("/community/posts", h.Community.CreatePost)
	auth.POST("/characters", h.Characters.Create)

	auth.GET("/projects", h.Projects.List)
	auth.POST("/projects", h.Projects.Create)
	auth.GET("/projects/:id", h.Projects.Get)
	auth.PUT("/projects/:id", h.Projects.Update)
	auth.DELETE("/projects/:id", h.Projects.Delete)

	auth.GET("/notifications", h.Notifications.List)
	auth.POST("/notifications", h.Notifications.Create)
	auth.PUT("/notifications/:id/read", h.Notifications.MarkRead)

	auth.POST("/subscriptions/redeem", h.Subscriptions.Redeem)
	auth.GET("/subscriptions/status", h.Subscriptions.Status)
	auth.POST("/upload", h.Uploads.Upload)
}

func registerAdmin(e *echo.Echo, cfg config.Config, h Handlers, profiles *repository.ProfileRepo) {
	guard := []echo.MiddlewareFunc{
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireAdmin(profiles),
	}

	admin := e.Group("/v1/admin", guard...)
	admin.GET("/dashboard", h.Analytics.Dashboard)
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id/ban", h.Admin.SetBan)
	admin.PUT("/users/:id/role", h.Admin.SetRole)

	analytics := e.Group("/v1/analytics", guard...)
	analytics.GET("/dashboard", h.Analytics.Dashboard)
	analytics.GET("/metrics", h.Analytics.Metrics)
	analytics.GET("/recent-activity", h.Analytics.RecentActivity)
	analytics.GET("/top-rated", h.Analytics.TopRated)

	security := e.Group("/v1/security", guard...)
	security.GET("/audit-logs", h.Security.ListAuditLogs)
	security.POST("/audit-logs", h.Security.CreateAuditLog)
	security.GET("/suspicious-activity", h.Security.SuspiciousActivity)
	security.GET("/ip-monitoring", h.Security.IPMonitoring)

	e.POST("/v1/subscriptions/generate-code", h.Subscriptions.GenerateCode, guard...)
	e.POST("/v1/send-vip-email", h.Subscriptions.SendVIPEmail, guard...)
	e.POST("/v1/featured/:type/:id", h.Featured.Feature, guard...)
	e.DELETE("/v1/featured/:type/:id", h.Featured.Unfeature, guard...)
	e.POST("/v1/hall-of-quills/competitions", h.Community.CreateCompetition, guard...)
	e.PUT("/v1/characters/:id", h.Characters.Update, guard...)
	e.DELETE("/v1/characters/:id", h.Characters.Delete, guard...)
}
