package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Rahanur19/youStream/internal/handler"
	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/metrics"
	authmw "github.com/Rahanur19/youStream/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler          *handler.AuthHandler
	UserHandler          *handler.UserHandler
	VideoHandler         *handler.VideoHandler
	CommunityPostHandler *handler.CommunityPostHandler
	CommentHandler       *handler.CommentHandler
	LikeHandler          *handler.LikeHandler
	PlaylistHandler      *handler.PlaylistHandler
	SubscriptionHandler  *handler.SubscriptionHandler
	DashboardHandler     *handler.DashboardHandler

	Tokens  authmw.TokenValidator
	Metrics *metrics.Metrics
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(authmw.Metrics(cfg.Metrics))

	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteSuccess(w, http.StatusOK, "OK", map[string]string{"status": "ok"})
		})

		// Public routes - no authentication required
		r.Post("/users/register", cfg.AuthHandler.Register)
		r.Post("/users/login", cfg.AuthHandler.Login)
		r.Post("/users/refresh-token", cfg.AuthHandler.Refresh)

		// Protected routes - require authentication
		r.Group(func(r chi.Router) {
			r.Use(authmw.AuthMiddleware(cfg.Tokens))

			r.Route("/users", func(r chi.Router) {
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Post("/change-password", cfg.UserHandler.ChangePassword)
				r.Get("/current-user", cfg.UserHandler.CurrentUser)
				r.Patch("/update-account", cfg.UserHandler.UpdateAccount)
				r.Patch("/avatar", cfg.UserHandler.UpdateAvatar)
				r.Patch("/cover-image", cfg.UserHandler.UpdateCoverImage)
				r.Get("/c/{username}", cfg.UserHandler.ChannelProfile)
				r.Get("/history", cfg.UserHandler.WatchHistory)
			})

			r.Route("/videos", func(r chi.Router) {
				r.Get("/", cfg.VideoHandler.List)
				r.Post("/", cfg.VideoHandler.Publish)
				r.Get("/{videoId}", cfg.VideoHandler.Get)
				r.Patch("/{videoId}", cfg.VideoHandler.Update)
				r.Delete("/{videoId}", cfg.VideoHandler.Delete)
				r.Patch("/toggle/publish/{videoId}", cfg.VideoHandler.TogglePublish)
			})

			r.Route("/community-posts", func(r chi.Router) {
				r.Post("/", cfg.CommunityPostHandler.Create)
				r.Get("/user/{userId}", cfg.CommunityPostHandler.ListByUser)
				r.Get("/{postId}", cfg.CommunityPostHandler.Get)
				r.Patch("/{postId}", cfg.CommunityPostHandler.Update)
				r.Delete("/{postId}", cfg.CommunityPostHandler.Delete)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/video/{videoId}", cfg.CommentHandler.ListForVideo)
				r.Post("/video/{videoId}", cfg.CommentHandler.CreateForVideo)
				r.Get("/post/{postId}", cfg.CommentHandler.ListForPost)
				r.Post("/post/{postId}", cfg.CommentHandler.CreateForPost)
				r.Get("/c/{commentId}", cfg.CommentHandler.Get)
				r.Patch("/c/{commentId}", cfg.CommentHandler.Update)
				r.Delete("/c/{commentId}", cfg.CommentHandler.Delete)
			})

			r.Route("/likes", func(r chi.Router) {
				r.Post("/toggle/v/{videoId}", cfg.LikeHandler.ToggleVideo)
				r.Post("/toggle/c/{commentId}", cfg.LikeHandler.ToggleComment)
				r.Post("/toggle/p/{postId}", cfg.LikeHandler.TogglePost)
				r.Get("/videos", cfg.LikeHandler.LikedVideos)
				r.Get("/count/{kind}/{id}", cfg.LikeHandler.Count)
			})

			r.Route("/playlists", func(r chi.Router) {
				r.Post("/", cfg.PlaylistHandler.Create)
				r.Get("/user/{userId}", cfg.PlaylistHandler.ListByUser)
				r.Get("/{playlistId}", cfg.PlaylistHandler.Get)
				r.Patch("/{playlistId}", cfg.PlaylistHandler.Update)
				r.Delete("/{playlistId}", cfg.PlaylistHandler.Delete)
				r.Patch("/add/{videoId}/{playlistId}", cfg.PlaylistHandler.AddVideo)
				r.Patch("/remove/{videoId}/{playlistId}", cfg.PlaylistHandler.RemoveVideo)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/c/{channelId}", cfg.SubscriptionHandler.Toggle)
				r.Get("/c/{channelId}", cfg.SubscriptionHandler.Subscribers)
				r.Get("/u/{subscriberId}", cfg.SubscriptionHandler.Channels)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", cfg.DashboardHandler.Stats)
				r.Get("/videos", cfg.DashboardHandler.Videos)
			})
		})
	})

	return r
}
