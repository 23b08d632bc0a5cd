package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
)

type Appointment struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement"`
	OfferingID  uint64            `gorm:"column:offering_id;index;not null"`
	ClientID    string            `gorm:"column:client_id;size:128;index;not null"`
	ProviderID  string            `gorm:"column:provider_id;size:128;index;not null"`
	Status      AppointmentStatus `gorm:"column:status;size:32;not null"`
	ScheduledAt time.Time         `gorm:"column:scheduled_at;not null"`
	CompletedAt *time.Time        `gorm:"column:completed_at"`
	CanceledAt  *time.Time        `gorm:"column:canceled_at"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`
}

func (Appointment) TableName() string {
	return "appointments"
}
