package handler

import (
	"log"
	"net/http"

	"musicgram/internal/httputil"
	"musicgram/internal/service"
	"musicgram/internal/transport/http/middleware"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

func (h *FeedHandler) GetFriendsActivity(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page, perPage, err := parsePagination(r, service.FeedDefaultPerPage, service.FeedMaxPerPage)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.feedService.GetFriendsActivity(r.Context(), viewerID, page, perPage)
	if err != nil {
		log.Printf("[ERROR] GetFriendsActivity handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch activity feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
