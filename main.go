package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avalue/ci-relay/bot"
	"github.com/avalue/ci-relay/config"
	"github.com/avalue/ci-relay/database"
	"github.com/avalue/ci-relay/lib/telegram"
	"github.com/avalue/ci-relay/middleware"
	"github.com/avalue/ci-relay/routes"
)

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	storage, err := bot.NewRedisStorage(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to dialogue storage: %v", err)
	}

	client, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := storage.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping dialogue storage: %v", err)
	}

	policy := middleware.UnknownTokenIgnore
	if cfg.RejectUnknownToken {
		policy = middleware.UnknownTokenReject
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	routes.Setup(router, db, client, policy)

	server := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: router,
	}

	// Chat-dispatch execution context.
	engine := bot.NewEngine(db, storage, client, cfg.DefaultRepoStatus)
	dispatcher := bot.NewDispatcher(client, engine)
	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		dispatcher.Run(ctx)
	}()

	// HTTP execution context.
	go func() {
		log.Printf("🚀 CI relay listening on %s", cfg.BindAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down, draining in-flight work...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}

	select {
	case <-botDone:
	case <-shutdownCtx.Done():
		log.Println("Bot dispatcher did not drain in time")
	}
	log.Println("Bye")
}
