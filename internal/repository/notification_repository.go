package repository

import (
	"context"
	"errors"

	"github.com/serviconnect/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

// NotificationFilter narrows ListByUser. An empty Type matches every type.
type NotificationFilter struct {
	UnreadOnly bool
	Type       string
	Limit      int
}

// BadgeAward is a badge_awarded notification joined with the badge it names.
type BadgeAward struct {
	Notification model.Notification `gorm:"embedded"`
	BadgeName    string             `gorm:"column:badge_name"`
	BadgeIconURL *string            `gorm:"column:badge_icon_url"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID string, f NotificationFilter) ([]model.Notification, error)
	ListBadgeAwards(ctx context.Context, userID string, limit int) ([]BadgeAward, error)
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
	SetDB(db *gorm.DB)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create returns ErrDuplicateNotification when n names a badge the user was
// already notified about.
func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(n)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateNotification
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateNotification
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxNotificationLimit {
		return defaultNotificationLimit
	}
	return limit
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, f NotificationFilter) ([]model.Notification, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Notification
	q := r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	if f.UnreadOnly {
		q = q.Where("read_at IS NULL")
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if err := q.Order("created_at DESC, id DESC").Limit(clampLimit(f.Limit)).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListBadgeAwards returns the user's badge notifications, newest first, read
// or not. Notifications whose badge was deleted are left out.
func (r *notificationRepository) ListBadgeAwards(ctx context.Context, userID string, limit int) ([]BadgeAward, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rows []BadgeAward
	err := r.db.WithContext(ctx).
		Table(model.Notification{}.TableName()).
		Select("notifications.*, badges.name AS badge_name, badges.icon_url AS badge_icon_url").
		Joins("JOIN badges ON badges.id = notifications.badge_id").
		Where("notifications.user_id = ? AND notifications.type = ?", userID, model.NotificationTypeBadgeAwarded).
		Order("notifications.created_at DESC, notifications.id DESC").
		Limit(clampLimit(limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	now := r.db.NowFunc()
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", now).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *notificationRepository) SetDB(db *gorm.DB) {
	r.db = db
}
