package model

import "time"

// Offering is a service a provider sells on the marketplace.
type Offering struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	ProviderID  string    `gorm:"column:provider_id;size:128;not null;index"`
	Title       string    `gorm:"size:120;not null"`
	Description string    `gorm:"type:text;not null"`
	PriceCents  int64     `gorm:"column:price_cents;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Offering) TableName() string {
	return "offerings"
}
