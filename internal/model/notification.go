package model

import "time"

const NotificationTypeBadgeAwarded = "badge_awarded"

// Notification is an inbox entry. At most one exists per (user, badge); rows
// without a badge are not deduplicated.
type Notification struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	UserID    string     `gorm:"column:user_id;size:128;index;not null;uniqueIndex:uk_notifications_user_badge"`
	Type      string     `gorm:"column:type;size:64;not null"`
	Title     string     `gorm:"column:title;size:255"`
	Body      string     `gorm:"column:body;type:text"`
	BadgeID   *uint64    `gorm:"column:badge_id;uniqueIndex:uk_notifications_user_badge"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
