package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/moim/moim-api/internal/config"
	"github.com/moim/moim-api/internal/domain/auth"
	"github.com/moim/moim-api/internal/domain/chat"
	"github.com/moim/moim-api/internal/domain/match"
	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/domain/profile"
	"github.com/moim/moim-api/internal/domain/relationships"
	"github.com/moim/moim-api/internal/domain/report"
	"github.com/moim/moim-api/internal/domain/request"
	"github.com/moim/moim-api/internal/domain/room"
	"github.com/moim/moim-api/internal/middleware"
	"github.com/moim/moim-api/internal/pkg/database"
	"github.com/moim/moim-api/internal/pkg/jwt"
	"github.com/moim/moim-api/internal/pkg/logger"
	pkgresponse "github.com/moim/moim-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Moim API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// ---------- Repositories ----------
	profileRepo := profile.NewRepository(db)
	roomRepo := room.NewRepository(db)
	requestRepo := request.NewRepository(db)
	matchRepo := match.NewRepository(db)
	messageRepo := chat.NewRepository(db)
	blockRepo := relationships.NewRepository(db)
	reportRepo := report.NewRepository(db)

	// ---------- Actor context resolver ----------
	resolver := policy.NewResolver(blockRepo, redisClient, cfg.BlockCacheTTL)

	// ---------- WebSocket hub ----------
	chatHub := chat.NewHub(redisClient)
	go chatHub.Run()
	defer chatHub.Shutdown()

	// ---------- Services ----------
	authService := auth.NewService(profileRepo, jwtService, redisClient)
	profileService := profile.NewService(profileRepo)
	roomService := room.NewService(roomRepo)
	requestService := request.NewService(requestRepo, roomRepo)
	matchService := match.NewService(matchRepo, chatHub)
	chatService := chat.NewService(messageRepo, matchRepo, chatHub)
	blockService := relationships.NewService(blockRepo, matchService, resolver)
	reportService := report.NewService(reportRepo)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	profileHandler := profile.NewHandler(profileService)
	roomHandler := room.NewHandler(roomService)
	requestHandler := request.NewHandler(requestService)
	matchHandler := match.NewHandler(matchService)
	chatHandler := chat.NewHandler(chatService, chatHub, redisClient, cfg.AllowedOrigins)
	blockHandler := relationships.NewHandler(blockService)
	reportHandler := report.NewHandler(reportService)

	authMiddleware := middleware.Auth(jwtService, resolver)
	optionalAuthMiddleware := middleware.OptionalAuth(jwtService, resolver)
	adminMiddleware := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress; browsers can't set headers on
	// WS dials, so the token rides a query parameter)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(chatHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]interface{}{
			"status":         "ok",
			"version":        "1.0.0",
			"ws_connections": chatHub.ConnectionCount(),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes())
		r.Mount("/profiles", profileHandler.Routes(authMiddleware, optionalAuthMiddleware))
		r.Mount("/rooms", roomHandler.Routes(authMiddleware, optionalAuthMiddleware))
		r.Mount("/rooms/{roomID}/requests", requestHandler.RoomRoutes(authMiddleware))
		r.Mount("/requests", requestHandler.Routes(authMiddleware))
		r.Mount("/matches", matchHandler.Routes(authMiddleware, chatHandler.MatchRoutes()))
		r.Mount("/users", blockHandler.Routes(authMiddleware))
		r.Mount("/reports", reportHandler.Routes(authMiddleware, adminMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
