package service

import (
	"context"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/logger"
	"kioskrent-backend/internal/repository"
)

// recordingNotifier persists notification intents as in-app notification
// records. Push/email/socket delivery is a downstream consumer of these
// records and lives outside this service.
type recordingNotifier struct {
	notes repository.NotificationRepository
}

func NewNotifier(notes repository.NotificationRepository) Notifier {
	return &recordingNotifier{notes: notes}
}

func (n *recordingNotifier) Notify(ctx context.Context, note *domain.Notification) {
	if err := n.notes.Create(ctx, note); err != nil {
		logger.Error("Failed to record notification", "user_id", note.UserID, "type", note.Type, "error", err)
	}
}

type notificationService struct {
	notes repository.NotificationRepository
}

func NewNotificationService(notes repository.NotificationRepository) NotificationService {
	return &notificationService{notes: notes}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.notes.List(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return s.notes.MarkAsRead(ctx, notificationID, userID)
}
