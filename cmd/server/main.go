package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notedash-server/internal/cache"
	"notedash-server/internal/config"
	"notedash-server/internal/handler"
	"notedash-server/internal/middleware"
	"notedash-server/internal/repository"
	"notedash-server/internal/service"
	"notedash-server/internal/websocket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	stores, err := repository.OpenStores(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer stores.Close()

	blacklist, err := openBlacklist(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer blacklist.Close()

	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		cfg.WebSocket.MaxMessageSize,
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
	)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go wsManager.Run(hubCtx)

	authService := service.NewAuthService(stores.Users, blacklist, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)
	userService := service.NewUserService(stores.Users)
	noteService := service.NewNoteService(stores.Notes, cfg.Trash.Retention)
	feedService := service.NewFeedService(noteService)
	todoService := service.NewTodoService(stores.Todos)
	workoutService := service.NewWorkoutService(stores.Workouts)

	wsManager.SetMessageHandler(handler.NewWebSocketMessageHandler(wsManager, feedService))
	wsHandler := handler.NewWebSocketHandler(wsManager, authService, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go service.NewRetentionSweeper(noteService, cfg.Trash.SweepInterval).Run(sweepCtx)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	handler.RegisterAPIRoutes(r, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Users:    handler.NewUserHandler(userService),
		Notes:    handler.NewNoteHandler(noteService),
		Todos:    handler.NewTodoHandler(todoService),
		Workouts: handler.NewWorkoutHandler(workoutService),
	}, authService)

	r.HandleFunc("/ws", wsHandler.HandleConnection)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/health", handler.HealthHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting Notedash Server on %s (env: %s, store: %s)", addr, cfg.Server.Env, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopSweeper()
	stopHub()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

// openBlacklist uses Redis when configured and an in-process set otherwise.
func openBlacklist(redisURL string) (cache.TokenBlacklist, error) {
	if redisURL == "" {
		log.Println("[Auth] REDIS_URL not set, revoked tokens are kept in memory")
		return cache.NewMemoryTokenBlacklist(), nil
	}
	blacklist, err := cache.NewRedisTokenBlacklist(redisURL)
	if err != nil {
		return nil, err
	}
	return blacklist, nil
}
