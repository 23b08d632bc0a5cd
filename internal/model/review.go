package model

import "time"

type Review struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	AppointmentID uint64    `gorm:"column:appointment_id;not null;uniqueIndex:uk_reviews_appointment_author"`
	AuthorID      string    `gorm:"column:author_id;size:128;not null;uniqueIndex:uk_reviews_appointment_author;index"`
	Rating        int       `gorm:"column:rating;not null"`
	Comment       string    `gorm:"column:comment;type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Review) TableName() string {
	return "reviews"
}
