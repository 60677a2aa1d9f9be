package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"musicgram/internal/httputil"
	"musicgram/internal/model"
	"musicgram/internal/service"
	"musicgram/internal/transport/http/middleware"
)

type InteractionHandler struct {
	interactionService *service.InteractionService
}

func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
	}
}

func (h *InteractionHandler) RecordPlay(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	songID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid song ID")
		return
	}

	// Play metadata is optional; an empty body is a bare play.
	var req model.RecordPlayRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	count, err := h.interactionService.RecordPlay(r.Context(), userID, songID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSongNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] RecordPlay handler: %v", err)
			httputil.WriteInternalError(w, "Failed to record play")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Play recorded",
		"play_count": count,
	})
}

func (h *InteractionHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	songID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid song ID")
		return
	}

	count, err := h.interactionService.Like(r.Context(), userID, songID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSongNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrAlreadyLiked):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[ERROR] Like handler: %v", err)
			httputil.WriteInternalError(w, "Failed to like song")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Song liked",
		"like_count": count,
	})
}

func (h *InteractionHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	songID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid song ID")
		return
	}

	count, err := h.interactionService.Unlike(r.Context(), userID, songID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSongNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotLiked):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[ERROR] Unlike handler: %v", err)
			httputil.WriteInternalError(w, "Failed to unlike song")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Song unliked",
		"like_count": count,
	})
}

func (h *InteractionHandler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	songID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid song ID")
		return
	}

	liked, err := h.interactionService.LikeStatus(r.Context(), userID, songID)
	if err != nil {
		log.Printf("[ERROR] LikeStatus handler: %v", err)
		httputil.WriteInternalError(w, "Failed to check like status")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{
		"liked": liked,
	})
}

func (h *InteractionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	songID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid song ID")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.interactionService.AddComment(r.Context(), userID, songID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentRequired),
			errors.Is(err, model.ErrCommentTooLong),
			errors.Is(err, model.ErrReplyToReply):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrSongNotFound),
			errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] AddComment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to add comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

func (h *InteractionHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.interactionService.DeleteComment(r.Context(), userID, commentID); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] DeleteComment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment deleted",
	})
}

func (h *InteractionHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	songID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid song ID")
		return
	}

	page, perPage, err := parsePagination(r, service.CommentsDefaultPerPage, service.CommentsMaxPerPage)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.interactionService.ListComments(r.Context(), songID, page, perPage)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSongNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] ListComments handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch comments")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *InteractionHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	count, err := h.interactionService.LikeComment(r.Context(), userID, commentID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrCommentAlreadyLiked):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[ERROR] LikeComment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to like comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Comment liked",
		"like_count": count,
	})
}

func (h *InteractionHandler) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	count, err := h.interactionService.UnlikeComment(r.Context(), userID, commentID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrCommentNotLiked):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[ERROR] UnlikeComment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to unlike comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Comment unliked",
		"like_count": count,
	})
}

// parseIDParam reads a positive int64 route parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parsePagination reads page/per_page query params, rejecting malformed
// values. Bounds clamping happens in the services.
func parsePagination(r *http.Request, defaultPerPage, maxPerPage int) (int, int, error) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
		page = parsed
	}

	perPage := defaultPerPage
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPerPage {
			return 0, 0, errors.New("per_page out of range")
		}
		perPage = parsed
	}

	return page, perPage, nil
}
