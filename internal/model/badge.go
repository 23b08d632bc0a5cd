package model

import "time"

// Badge is a catalog entry. The rule columns are the persisted form of a
// BadgeRule; use Rule and SetRule instead of touching them directly.
type Badge struct {
	ID              uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string     `gorm:"size:120;not null;uniqueIndex:uk_badges_name" json:"name"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	IconURL         *string    `gorm:"column:icon_url;size:512" json:"iconUrl,omitempty"`
	RuleKind        RuleKind   `gorm:"column:rule_kind;size:32;not null" json:"ruleKind"`
	PointsThreshold *int64     `gorm:"column:points_threshold" json:"pointsThreshold,omitempty"`
	EventTrigger    *EventKind `gorm:"column:event_trigger;size:64" json:"eventTrigger,omitempty"`
	RequiredCount   *int64     `gorm:"column:required_count" json:"requiredCount,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge records that a user holds a badge. (user_id, badge_id) is unique.
type UserBadge struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"column:user_id;size:128;not null;uniqueIndex:uk_user_badges_user_badge" json:"userId"`
	BadgeID   uint64    `gorm:"column:badge_id;not null;uniqueIndex:uk_user_badges_user_badge;index" json:"badgeId"`
	AwardedAt time.Time `gorm:"column:awarded_at;autoCreateTime" json:"awardedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
