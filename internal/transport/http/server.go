package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"musicgram/internal/cache"
	"musicgram/internal/config"
	"musicgram/internal/database"
	"musicgram/internal/handler"
	"musicgram/internal/notify"
	"musicgram/internal/redis"
	"musicgram/internal/repository"
	"musicgram/internal/service"
)

func Run() error {
	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Postgres
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis
	rdb, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Connected to Redis successfully")

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	songRepo := repository.NewSongRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	playRepo := repository.NewPlayHistoryRepository(db)

	// 5. Services
	recorder := service.NewBehaviorRecorder(behaviorRepo)
	publisher := notify.NewPublisher(rdb.Client)
	unreadCache := cache.NewUnreadCache(rdb.Client)

	socialService := service.NewSocialService(followRepo, userRepo, recorder)
	interactionService := service.NewInteractionService(songRepo, likeRepo, commentRepo, userRepo, playRepo, recorder)
	feedService := service.NewFeedService(followRepo, behaviorRepo, userRepo, songRepo)
	messageService := service.NewMessageService(
		messageRepo, followRepo, userRepo, recorder, publisher, unreadCache, cfg.MessageFollowGate)

	// 6. Handlers and router
	router := NewRouter(RouterConfig{
		SocialHandler:      handler.NewSocialHandler(socialService),
		InteractionHandler: handler.NewInteractionHandler(interactionService),
		FeedHandler:        handler.NewFeedHandler(feedService),
		MessageHandler:     handler.NewMessageHandler(messageService),
		JWTSecret:          cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 7. Serve until interrupted, then drain
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received signal %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
