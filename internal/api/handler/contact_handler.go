package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cv-insight/internal/constants"
	"cv-insight/internal/storage"
	"cv-insight/internal/storage/models"
)

// ContactHandler accepts contact-form submissions. Each submission is written
// to the database first, then published for the mail consumer; a queue outage
// therefore loses nothing.
type ContactHandler struct {
	storage *storage.Storage
	logger  zerolog.Logger
}

// NewContactHandler wires the contact handler.
func NewContactHandler(st *storage.Storage, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{storage: st, logger: logger}
}

// ContactRequest is a contact-form submission. Subject is optional.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ContactResponse acknowledges a submission.
type ContactResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// HandleContact validates, persists and publishes one submission.
func (h *ContactHandler) HandleContact(ctx context.Context, req ContactRequest) (*ContactResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Body = strings.TrimSpace(req.Body)

	if req.Name == "" || req.Body == "" {
		return nil, fmt.Errorf("%w: name and message body are required", ErrMissingFields)
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	messageID := uuid.NewString()
	now := time.Now()

	if h.storage != nil && h.storage.MySQL != nil {
		msg := &models.ContactMessage{
			MessageID: messageID,
			Name:      req.Name,
			Email:     email,
			Subject:   req.Subject,
			Body:      req.Body,
			CreatedAt: now,
		}
		if err := h.storage.MySQL.CreateContactMessage(ctx, msg); err != nil {
			return nil, fmt.Errorf("store contact message: %w", err)
		}
	}

	if h.storage != nil && h.storage.RabbitMQ != nil {
		event := storage.ContactEvent{
			MessageID: messageID,
			Name:      req.Name,
			Email:     email,
			Subject:   req.Subject,
			Body:      req.Body,
			CreatedAt: now,
		}
		if err := h.publishEvent(ctx, event); err != nil {
			// The row is stored with sent=false; the message can be
			// republished later.
			h.logger.Error().Err(err).Str("message_id", messageID).Msg("publishing contact event failed")
		}
	}

	return &ContactResponse{MessageID: messageID, Status: "received"}, nil
}

func (h *ContactHandler) publishEvent(ctx context.Context, event storage.ContactEvent) error {
	queue := h.storage.RabbitMQ
	if err := queue.EnsureExchange(constants.ContactExchange, "direct", true); err != nil {
		return err
	}
	return queue.PublishJSON(ctx, constants.ContactExchange, constants.ContactRoutingKey, event, true)
}
