package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"musicgram/internal/httputil"
	"musicgram/internal/model"
	"musicgram/internal/service"
	"musicgram/internal/transport/http/middleware"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	message, err := h.messageService.Send(r.Context(), senderID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSelfMessage),
			errors.Is(err, model.ErrMessageEmpty),
			errors.Is(err, model.ErrMessageTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotMutualFollowers):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] Send message handler: %v", err)
			httputil.WriteInternalError(w, "Failed to send message")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	conversations, err := h.messageService.ListConversations(r.Context(), viewerID)
	if err != nil {
		log.Printf("[ERROR] ListConversations handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch conversations")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	partnerID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	page, perPage, err := parsePagination(r, service.MessagesDefaultPerPage, service.MessagesMaxPerPage)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.messageService.GetConversation(r.Context(), viewerID, partnerID, page, perPage)
	if err != nil {
		log.Printf("[ERROR] GetConversation handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch conversation")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	messageID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid message ID")
		return
	}

	if err := h.messageService.MarkRead(r.Context(), viewerID, messageID); err != nil {
		switch {
		case errors.Is(err, model.ErrMessageNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotMessageRecipient):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] MarkRead handler: %v", err)
			httputil.WriteInternalError(w, "Failed to mark message read")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Message marked as read",
	})
}

func (h *MessageHandler) MarkConversationRead(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	partnerID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	updated, err := h.messageService.MarkConversationRead(r.Context(), viewerID, partnerID)
	if err != nil {
		log.Printf("[ERROR] MarkConversationRead handler: %v", err)
		httputil.WriteInternalError(w, "Failed to mark conversation read")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Conversation marked as read",
		"updated": updated,
	})
}

func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	count, err := h.messageService.UnreadCount(r.Context(), viewerID)
	if err != nil {
		log.Printf("[ERROR] UnreadCount handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch unread count")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int{
		"unread_count": count,
	})
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	messageID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid message ID")
		return
	}

	if err := h.messageService.Delete(r.Context(), requesterID, messageID); err != nil {
		switch {
		case errors.Is(err, model.ErrMessageNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotMessageParticipant):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] Delete message handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete message")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Message deleted",
	})
}
