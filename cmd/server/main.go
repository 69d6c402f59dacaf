package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/config"
	"github.com/hekayaty/hekayaty-server/internal/database"
	"github.com/hekayaty/hekayaty-server/internal/handler"
	"github.com/hekayaty/hekayaty-server/internal/queue"
	"github.com/hekayaty/hekayaty-server/internal/repository"
	"github.com/hekayaty/hekayaty-server/internal/router"
	"github.com/hekayaty/hekayaty-server/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	// nil client disables caching and rate limiting gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	profiles := repository.NewProfileRepo(db)
	tokens := repository.NewTokenRepo(db)
	stories := repository.NewStoryRepo(db)
	chapters := repository.NewChapterRepo(db)
	comics := repository.NewComicRepo(db)
	ratings := repository.NewRatingRepo(db)
	bookmarks := repository.NewBookmarkRepo(db)
	vipCodes := repository.NewVIPCodeRepo(db)
	notifications := repository.NewNotificationRepo(db)
	audit := repository.NewAuditLogRepo(db)
	workshops := repository.NewWorkshopRepo(db)
	competitions := repository.NewCompetitionRepo(db)
	characters := repository.NewCharacterRepo(db)
	projects := repository.NewProjectRepo(db)

	cloudinary := service.NewCloudinary(
		cfg.CloudinaryCloudName,
		cfg.PDFCloudinaryCloudName,
		cfg.PDFCloudinaryAPIKey,
		cfg.PDFCloudinaryAPISecret,
	)
	mailer := service.NewMailer(cfg.ResendAPIKey)

	events := cfg.AMQPURL != ""
	if events {
		go func() {
			if err := queue.StartEngagementConsumer(notifications); err != nil {
				log.Printf("engagement consumer stopped: %v", err)
			}
		}()
	}

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, profiles, tokens, audit),
		Stories:       handler.NewStoryHandler(stories, profiles),
		Chapters:      handler.NewChapterHandler(chapters, stories),
		Comics:        handler.NewComicHandler(comics),
		Ratings:       handler.NewRatingHandler(ratings, stories, profiles, events),
		Bookmarks:     handler.NewBookmarkHandler(bookmarks, stories, profiles, events),
		Profiles:      handler.NewProfileHandler(profiles),
		Subscriptions: handler.NewSubscriptionHandler(vipCodes, profiles, mailer, audit, events),
		Notifications: handler.NewNotificationHandler(notifications),
		Search:        handler.NewSearchHandler(stories, comics, profiles),
		Featured:      handler.NewFeaturedHandler(stories, comics, audit),
		Community:     handler.NewCommunityHandler(workshops, competitions),
		Characters:    handler.NewCharacterHandler(characters),
		Projects:      handler.NewProjectHandler(projects),
		Creators:      handler.NewCreatorHandler(profiles, stories, comics),
		Admin:         handler.NewAdminHandler(profiles, audit),
		Analytics:     handler.NewAnalyticsHandler(profiles, stories, comics),
		Security:      handler.NewSecurityHandler(audit),
		Uploads:       handler.NewUploadHandler(cloudinary, audit),
		PDFProxy:      handler.NewPDFProxyHandler(),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, h, profiles, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
