package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/config"
	"github.com/Rahanur19/youStream/internal/database"
	"github.com/Rahanur19/youStream/internal/handler"
	"github.com/Rahanur19/youStream/internal/logger"
	"github.com/Rahanur19/youStream/internal/metrics"
	"github.com/Rahanur19/youStream/internal/queue"
	"github.com/Rahanur19/youStream/internal/redis"
	"github.com/Rahanur19/youStream/internal/repository"
	"github.com/Rahanur19/youStream/internal/service"
	"github.com/Rahanur19/youStream/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.JSON)

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// 3. Object storage and media
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	media := service.NewMediaService(store, storage.NewFFmpegDuration(), cfg.Storage.PublicURL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	postRepo := repository.NewCommunityPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	tx := repository.NewTransactor(db)

	// 5. Services
	cascade := service.NewCascadeEngine(service.CascadeDeps{
		Tx:        tx,
		Users:     userRepo,
		Videos:    videoRepo,
		Posts:     postRepo,
		Comments:  commentRepo,
		Likes:     likeRepo,
		Playlists: playlistRepo,
		Media:     media,
		Metrics:   m,
	})

	// The release journal is optional; without Redis failed releases are only logged.
	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		cascade.SetJournal(queue.NewPublisher(client))
	} else {
		logrus.Warn("[Server] REDIS_URL not set, failed media releases will not be journaled")
	}

	tokenService := service.NewTokenService(userRepo, cfg.Token)
	userService := service.NewUserService(userRepo, subscriptionRepo, media, cascade)
	videoService := service.NewVideoService(videoRepo, userRepo, media, cascade)
	postService := service.NewCommunityPostService(postRepo, userRepo, cascade)
	commentService := service.NewCommentService(commentRepo, videoRepo, postRepo, cascade)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo, postRepo, m)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo, tx)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, m)
	dashboardService := service.NewDashboardService(videoRepo, subscriptionRepo)

	// 6. Router
	router := NewRouter(RouterConfig{
		AuthHandler:          handler.NewAuthHandler(userService, tokenService),
		UserHandler:          handler.NewUserHandler(userService),
		VideoHandler:         handler.NewVideoHandler(videoService),
		CommunityPostHandler: handler.NewCommunityPostHandler(postService),
		CommentHandler:       handler.NewCommentHandler(commentService),
		LikeHandler:          handler.NewLikeHandler(likeService),
		PlaylistHandler:      handler.NewPlaylistHandler(playlistService),
		SubscriptionHandler:  handler.NewSubscriptionHandler(subscriptionService),
		DashboardHandler:     handler.NewDashboardHandler(dashboardService),
		Tokens:               tokenService,
		Metrics:              m,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("[Server] Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logrus.Info("[Server] Stopped")
	return nil
}
