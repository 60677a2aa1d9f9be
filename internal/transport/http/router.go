package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"musicgram/internal/handler"
	"musicgram/internal/httputil"
	authmw "musicgram/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	SocialHandler      *handler.SocialHandler
	InteractionHandler *handler.InteractionHandler
	FeedHandler        *handler.FeedHandler
	MessageHandler     *handler.MessageHandler
	JWTSecret          string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(authmw.ClientInfoMiddleware)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/songs/{id}/comments", cfg.InteractionHandler.ListComments)
	r.Route("/users", func(r chi.Router) {
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/followers", cfg.SocialHandler.GetFollowers)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/following", cfg.SocialHandler.GetFollowing)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Song interactions
		r.Post("/songs/{id}/play", cfg.InteractionHandler.RecordPlay)
		r.Post("/songs/{id}/like", cfg.InteractionHandler.Like)
		r.Delete("/songs/{id}/like", cfg.InteractionHandler.Unlike)
		r.Get("/songs/{id}/like/status", cfg.InteractionHandler.LikeStatus)
		r.Post("/songs/{id}/comments", cfg.InteractionHandler.AddComment)

		// Comments
		r.Delete("/comments/{id}", cfg.InteractionHandler.DeleteComment)
		r.Post("/comments/{id}/like", cfg.InteractionHandler.LikeComment)
		r.Delete("/comments/{id}/like", cfg.InteractionHandler.UnlikeComment)

		// Follow graph
		r.Post("/users/{id}/follow", cfg.SocialHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.SocialHandler.Unfollow)
		r.Get("/users/{id}/is-following", cfg.SocialHandler.IsFollowing)

		// Feed
		r.Get("/feed/friends-activity", cfg.FeedHandler.GetFriendsActivity)

		// Messaging
		r.Route("/messages", func(r chi.Router) {
			r.Post("/", cfg.MessageHandler.Send)
			r.Get("/conversations", cfg.MessageHandler.ListConversations)
			r.Get("/conversation/{id}", cfg.MessageHandler.GetConversation)
			r.Put("/conversation/{id}/read", cfg.MessageHandler.MarkConversationRead)
			r.Put("/{id}/read", cfg.MessageHandler.MarkRead)
			r.Get("/unread-count", cfg.MessageHandler.UnreadCount)
			r.Delete("/{id}", cfg.MessageHandler.Delete)
		})
	})

	return r
}
