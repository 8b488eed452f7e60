package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stickyboard/sticky-board/internal/ai"
	"github.com/stickyboard/sticky-board/internal/billing"
	"github.com/stickyboard/sticky-board/internal/broadcast"
	"github.com/stickyboard/sticky-board/internal/config"
	"github.com/stickyboard/sticky-board/internal/database"
	"github.com/stickyboard/sticky-board/internal/handler"
	"github.com/stickyboard/sticky-board/internal/middleware"
	"github.com/stickyboard/sticky-board/internal/queue"
	"github.com/stickyboard/sticky-board/internal/repository"
	"github.com/stickyboard/sticky-board/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	hub := broadcast.NewHub()
	gemini := ai.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	stripe := billing.NewStripe(cfg.StripeSecretKey)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	notes := repository.NewNoteRepo(db)
	legacy := repository.NewLegacyNoteRepo(db)
	boards := repository.NewBoardRepo(db)
	tiers := repository.NewTierRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	h := router.Handlers{
		Auth:         authH,
		Registration: handler.NewRegistrationHandler(authH, users),
		Profile:      handler.NewProfileHandler(users, notes),
		Notes:        handler.NewNoteHandler(cfg, notes, legacy, hub),
		Stream:       handler.NewStreamHandler(hub),
		AI:           handler.NewAIHandler(notes, gemini, hub),
		Payments:     handler.NewPaymentHandler(stripe, tiers, users),
		Boards:       handler.NewBoardHandler(boards, users),
		Health:       handler.NewHealthHandler(db),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	listCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.Register(e, h, cfg.JWTSecret, listCache)

	// Background consumer turning note events into the activity log. Runs a
	// reconnect loop; never brings the server down.
	go func() {
		if err := queue.StartNoteEventConsumer(); err != nil {
			log.Printf("note-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
