package service

import (
	"context"
	"errors"

	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/repository"
	"go.uber.org/zap"
)

type NotificationService interface {
	Notify(ctx context.Context, userID, typ, title, body string, badgeID *uint64)
	List(ctx context.Context, userID string, f repository.NotificationFilter) ([]model.Notification, int64, error)
	BadgeAwards(ctx context.Context, userID string, limit int) ([]repository.BadgeAward, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

// Notify is best-effort: failures are logged and never returned. A repeated
// badge notification is dropped.
func (s *notificationService) Notify(ctx context.Context, userID, typ, title, body string, badgeID *uint64) {
	if userID == "" || typ == "" {
		return
	}
	n := &model.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Body:    body,
		BadgeID: badgeID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		if errors.Is(err, repository.ErrDuplicateNotification) {
			s.logger.Debug("badge notification already sent",
				zap.String("user_id", userID),
				zap.Uint64p("badge_id", badgeID))
			return
		}
		s.logger.Warn("notification not stored",
			zap.String("user_id", userID),
			zap.String("type", typ),
			zap.Error(err))
	}
}

func (s *notificationService) List(ctx context.Context, userID string, f repository.NotificationFilter) ([]model.Notification, int64, error) {
	if userID == "" {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) BadgeAwards(ctx context.Context, userID string, limit int) ([]repository.BadgeAward, error) {
	if userID == "" {
		return nil, nil
	}
	return s.repo.ListBadgeAwards(ctx, userID, limit)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return s.repo.MarkAllRead(ctx, userID)
}
