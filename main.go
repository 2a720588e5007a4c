package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"daylog-api/handlers"
	"daylog-api/identity"
	"daylog-api/middleware"
	"daylog-api/pkg/appenv"
	"daylog-api/pkg/notify"
	"daylog-api/repository"
	"daylog-api/websocket"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	// Shared with the identity service; session tokens are verified locally.
	sessionSecret := os.Getenv("SESSION_JWT_SECRET")
	if len(sessionSecret) < 32 {
		log.Fatal("SESSION_JWT_SECRET must be set and at least 32 characters")
	}

	identityClient, err := identity.NewClientFromEnv()
	if err != nil {
		log.Fatal("Identity service configuration error: ", err)
	}

	var db *sql.DB
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database: ", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error: ", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error: ", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed: ", err)
	}

	activitiesRepo := repository.NewActivitiesRepository(db)

	if appenv.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Structured request ID and JSON access logs
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	// Panic recovery
	r.Use(gin.Recovery())

	// Configure trusted proxies for correct client IP handling in production
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		parts := strings.Split(trustedProxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Default to loopback only; override via TRUSTED_PROXIES in production
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	// WebSocket hub for live activity updates
	hub := websocket.NewHub()
	notifier := &notify.WSNotifier{Hub: hub}

	sessionsHandler := handlers.NewSessionsHandler(identityClient)
	activitiesHandler := handlers.NewActivitiesHandler(activitiesRepo).WithNotifier(notifier)
	analyticsHandler := handlers.NewAnalyticsHandler(activitiesRepo)

	// Public endpoints
	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/logout", sessionsHandler.Logout)

	// Session endpoints with a stricter rate limit
	sessionPublic := r.Group("/", middleware.RateLimitSessionMiddleware())
	sessionPublic.GET("/api/oauth/google/redirect_url", sessionsHandler.GetOAuthRedirectURL)
	sessionPublic.POST("/api/sessions", sessionsHandler.CreateSession)

	auth := r.Group("/", handlers.AuthMiddleware(sessionSecret))
	{
		auth.GET("/api/users/me", sessionsHandler.Me)

		auth.GET("/api/activities", activitiesHandler.ListActivities)
		auth.POST("/api/activities", activitiesHandler.CreateActivity)
		auth.PUT("/api/activities/:id", activitiesHandler.UpdateActivity)
		auth.DELETE("/api/activities/:id", activitiesHandler.DeleteActivity)

		auth.GET("/api/analytics/:date", analyticsHandler.GetDailyAnalytics)

		auth.GET("/ws", websocket.ServeWS(hub))
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal("Server error: ", err)
	}
}
