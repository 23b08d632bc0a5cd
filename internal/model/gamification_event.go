package model

import (
	"time"

	"gorm.io/datatypes"
)

type EventKind string

const (
	EventUserRegistered       EventKind = "USER_REGISTERED"
	EventAppointmentCompleted EventKind = "APPOINTMENT_COMPLETED"
	EventReviewCreated        EventKind = "REVIEW_CREATED"
)

// GamificationEvent is an append-only ledger row. Rows are never updated; the
// per-kind row count drives occurrence-based badge rules.
type GamificationEvent struct {
	ID            uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string            `gorm:"column:user_id;size:128;not null;index:idx_gamification_events_user_type" json:"userId"`
	EventType     EventKind         `gorm:"column:event_type;size:64;not null;index:idx_gamification_events_user_type" json:"eventType"`
	PointsAwarded int64             `gorm:"column:points_awarded;not null" json:"pointsAwarded"`
	Metadata      datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"createdAt"`
}

func (GamificationEvent) TableName() string {
	return "gamification_events"
}
