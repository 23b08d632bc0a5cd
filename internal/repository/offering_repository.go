package repository

import (
	"context"

	"github.com/serviconnect/backend/internal/model"
	"gorm.io/gorm"
)

type OfferingRepository interface {
	Create(ctx context.Context, o *model.Offering) error
	FindByID(ctx context.Context, id uint64) (*model.Offering, error)
	List(ctx context.Context, providerID string, limit, offset int) ([]model.Offering, int64, error)
	SetDB(db *gorm.DB)
}

type offeringRepository struct {
	db *gorm.DB
}

func NewOfferingRepository(db *gorm.DB) OfferingRepository {
	return &offeringRepository{db: db}
}

func (r *offeringRepository) Create(ctx context.Context, o *model.Offering) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *offeringRepository) FindByID(ctx context.Context, id uint64) (*model.Offering, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var o model.Offering
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *offeringRepository) List(ctx context.Context, providerID string, limit, offset int) ([]model.Offering, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		list  []model.Offering
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.Offering{})
	if providerID != "" {
		q = q.Where("provider_id = ?", providerID)
	}
	q = q.Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *offeringRepository) SetDB(db *gorm.DB) {
	r.db = db
}
