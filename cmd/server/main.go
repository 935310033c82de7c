package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"             // .env loader for local development
	"github.com/labstack/echo/v4"          // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's built-in middleware (CORS)

	"github.com/iliyamo/user-auth-service/internal/config"     // Internal config loader
	"github.com/iliyamo/user-auth-service/internal/database"   // MySQL connection
	"github.com/iliyamo/user-auth-service/internal/handler"    // HTTP handlers
	"github.com/iliyamo/user-auth-service/internal/mailer"     // SMTP verification mail
	"github.com/iliyamo/user-auth-service/internal/middleware" // Response cache middleware
	"github.com/iliyamo/user-auth-service/internal/oauth"      // OAuth providers
	"github.com/iliyamo/user-auth-service/internal/queue"      // Auth event consumer
	"github.com/iliyamo/user-auth-service/internal/repository" // DB repositories
	"github.com/iliyamo/user-auth-service/internal/router"     // Route registration
)

func main() {
	// Load .env if present; in production the variables come from the
	// process environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading config from process environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	mail := mailer.NewSMTPMailer(cfg)

	google := oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleSecret, cfg.BackendURL+"/auth/google/callback")
	facebook := oauth.NewFacebook(cfg.FacebookClientID, cfg.FacebookSecret, cfg.BackendURL+"/auth/facebook/callback")

	authHandler := handler.NewAuthHandler(cfg, users, sessions, mail)
	oauthHandler := handler.NewOAuthHandler(cfg, users, sessions, google, facebook)
	profileHandler := handler.NewProfileHandler(users)
	statsHandler := handler.NewStatsHandler(users)

	// Redis is optional: when it is unreachable the aggregate endpoints
	// simply run uncached.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	// Credentialed single-origin CORS so the front end can carry the
	// session cookie.
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowMethods:     []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, oauthHandler, profileHandler, cfg.JWTSecret, users)
	router.RegisterPublic(e, statsHandler, cache)

	// Background consumer mirroring auth events into logs/auth.log. It
	// reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartAuthEventConsumer(); err != nil {
			log.Printf("auth event consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
