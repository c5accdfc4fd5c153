package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"portfolioAPI/internal/types/contact"
	"portfolioAPI/middleware"
	"portfolioAPI/services"
)

type ContactHandler struct {
	contactService *services.ContactService
	logger         *zap.Logger
}

func NewContactHandler(contactService *services.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

func (h *ContactHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req contact.SubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.ObserveContactSubmission("bad_request")
		respondWithJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid request body"})
		return
	}

	msg, err := h.contactService.Submit(ctx, &req)
	if err != nil {
		code := serviceErrorStatus(err)
		message := err.Error()
		switch code {
		case http.StatusBadRequest:
			middleware.ObserveContactSubmission("invalid")
		case http.StatusServiceUnavailable:
			middleware.ObserveContactSubmission("unavailable")
			message = "Contact form is unavailable"
		default:
			middleware.ObserveContactSubmission("error")
			h.logger.Error("failed to submit contact message", zap.Error(err))
			message = "Failed to send message"
		}
		respondWithJSON(w, code, map[string]any{"success": false, "error": message})
		return
	}

	middleware.ObserveContactSubmission("accepted")
	respondWithJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      msg.ID,
	})
}

func (h *ContactHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
	}

	messages, err := h.contactService.ListMessages(ctx, limit)
	if err != nil {
		code := serviceErrorStatus(err)
		if code == http.StatusInternalServerError {
			h.logger.Error("failed to list contact messages", zap.Error(err))
		}
		respondWithError(w, code, "Failed to fetch messages")
		return
	}

	respondWithJSON(w, http.StatusOK, contact.MessageListResponse{
		Messages: messages,
		Count:    len(messages),
	})
}
