package repository

import (
	"context"

	"github.com/serviconnect/backend/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *model.Review) error
	ExistsForAppointment(ctx context.Context, appointmentID uint64, authorID string) (bool, error)
	ListByAppointment(ctx context.Context, appointmentID uint64) ([]model.Review, error)
	SetDB(db *gorm.DB)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepository) ExistsForAppointment(ctx context.Context, appointmentID uint64, authorID string) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("appointment_id = ? AND author_id = ?", appointmentID, authorID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *reviewRepository) ListByAppointment(ctx context.Context, appointmentID uint64) ([]model.Review, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Review
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *reviewRepository) SetDB(db *gorm.DB) {
	r.db = db
}
