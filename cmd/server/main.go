package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/taskhub/taskhub-api/internal/auth"       // bearer-token codec
	"github.com/taskhub/taskhub-api/internal/config"     // environment config loader
	"github.com/taskhub/taskhub-api/internal/database"   // MySQL connection + migrations
	"github.com/taskhub/taskhub-api/internal/handler"    // HTTP handlers
	"github.com/taskhub/taskhub-api/internal/mail"       // reset-code mail queue
	"github.com/taskhub/taskhub-api/internal/middleware" // request gate, request id, rate limit
	"github.com/taskhub/taskhub-api/internal/repository" // DB repositories
	"github.com/taskhub/taskhub-api/internal/router"     // route registration
	"github.com/taskhub/taskhub-api/internal/service"    // password-reset workflow
)

func main() {
	// Load .env when present; in production the variables come from the
	// environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	resetTokens := repository.NewResetTokenRepo(db)
	tasks := repository.NewTaskRepo(db)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTLifetime)
	// Fail fast on a weak signing secret instead of rejecting the first
	// sign-in at runtime.
	if err := issuer.CheckSecret(); err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	mailer := mail.NewPublisher()
	reset := service.NewPasswordReset(users, resetTokens, mailer, cfg.BcryptCost)

	// Drain the reset-code mail queue in the background.
	go mail.StartConsumer(cfg)

	// Redis-backed rate limiter for the public auth endpoints; nil client
	// degrades to a no-op.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; auth rate limiting disabled")
	}
	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.Use(middleware.RequestID())
	e.Use(middleware.Authenticate(issuer, users))

	router.Register(e,
		handler.NewAuthHandler(users, issuer, reset, cfg.BcryptCost),
		handler.NewUserHandler(users),
		handler.NewTaskHandler(tasks),
		limiter,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
