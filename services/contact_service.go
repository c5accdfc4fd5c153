package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfolioAPI/internal/notification"
	"portfolioAPI/internal/types/contact"
)

const (
	maxMessageLength   = 5000
	defaultInboxLimit  = 50
	maxInboxLimit      = 100
	notifyPreviewRunes = 120
)

var ErrInvalidContact = errors.New("invalid contact message")

type ContactRepository interface {
	InsertMessage(ctx context.Context, msg *contact.Message) error
	ListMessages(ctx context.Context, limit int) ([]*contact.Message, error)
}

// ContactService stores contact form submissions and pings the site owner.
type ContactService struct {
	repo       ContactRepository
	dispatcher *NotificationDispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewContactService creates the service. repo may be nil (read-only mode)
// and dispatcher may be nil when push notifications are disabled.
func NewContactService(repo ContactRepository, dispatcher *NotificationDispatcher, logger *zap.Logger) *ContactService {
	return &ContactService{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ContactService) Submit(ctx context.Context, req *contact.SubmitRequest) (*contact.Message, error) {
	if s.repo == nil {
		return nil, ErrReadOnly
	}

	msg, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	s.logger.Info("contact message received",
		zap.String("id", msg.ID.String()),
		zap.Int("length", utf8.RuneCountInString(msg.Message)))

	if s.dispatcher != nil {
		s.dispatcher.Enqueue(&DispatchJob{
			Kind: "contact_message",
			Push: notification.Push{
				Title: "New message from " + msg.Name,
				Body:  preview(msg.Message, notifyPreviewRunes),
				Data: map[string]any{
					"id":    msg.ID.String(),
					"email": msg.Email,
				},
			},
		})
	}

	return msg, nil
}

// ListMessages returns the newest messages first. limit is clamped to
// 1..100; zero or negative selects the default.
func (s *ContactService) ListMessages(ctx context.Context, limit int) ([]*contact.Message, error) {
	if s.repo == nil {
		return nil, ErrReadOnly
	}

	switch {
	case limit <= 0:
		limit = defaultInboxLimit
	case limit > maxInboxLimit:
		limit = maxInboxLimit
	}

	messages, err := s.repo.ListMessages(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	if messages == nil {
		messages = []*contact.Message{}
	}
	return messages, nil
}

func (s *ContactService) validate(req *contact.SubmitRequest) (*contact.Message, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidContact)
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidContact)
	}

	body := strings.TrimSpace(req.Message)
	if body == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidContact)
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrInvalidContact, maxMessageLength)
	}

	return &contact.Message{
		ID:        uuid.New(),
		Name:      name,
		Email:     addr.Address,
		Message:   body,
		CreatedAt: s.now().UTC(),
	}, nil
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
