package notification

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ErrAllFailed is returned when no device accepted the push.
var ErrAllFailed = errors.New("all push notifications failed")

// messageSender is the part of *messaging.Client that SendPush uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type FCMService struct {
	client messageSender
	logger *zap.Logger
}

// NewFCMService initializes FCMService. It first attempts to use
// credentials from the FCM_SERVICE_ACCOUNT_JSON environment variable (Base64 encoded).
// If that's not found, it falls back to a local service account key file.
func NewFCMService(ctx context.Context, localFilePath string, logger *zap.Logger) (*FCMService, error) {
	var opt option.ClientOption

	if encodedCreds := os.Getenv("FCM_SERVICE_ACCOUNT_JSON"); encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FCM_SERVICE_ACCOUNT_JSON: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		logger.Info("FCM initializing from environment")
	} else {
		if _, err := os.Stat(localFilePath); err != nil {
			return nil, fmt.Errorf("firebase credentials not found at %s and FCM_SERVICE_ACCOUNT_JSON is not set: %w", localFilePath, err)
		}
		opt = option.WithCredentialsFile(localFilePath)
		logger.Info("FCM initializing from file", zap.String("path", localFilePath))
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client, logger: logger}, nil
}

// SendPush sends p to every token one message at a time. It only fails when
// every send failed.
func (s *FCMService) SendPush(ctx context.Context, tokens []string, p Push) error {
	if len(tokens) == 0 {
		return nil
	}

	successCount, failureCount := 0, 0
	for _, token := range tokens {
		if _, err := s.client.Send(ctx, buildMessage(token, p)); err != nil {
			s.logger.Warn("FCM send failed", zap.String("token", redact(token)), zap.Error(err))
			failureCount++
			continue
		}
		successCount++
	}

	s.logger.Info("FCM push sent", zap.Int("sent", successCount), zap.Int("failed", failureCount))

	if successCount == 0 {
		return ErrAllFailed
	}
	return nil
}

func buildMessage(token string, p Push) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: p.StringData(),
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
	}
}

func redact(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}

func fmtValue(v any) string {
	return fmt.Sprintf("%v", v)
}
