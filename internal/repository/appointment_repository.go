package repository

import (
	"context"
	"time"

	"github.com/serviconnect/backend/internal/model"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) error
	FindByID(ctx context.Context, id uint64) (*model.Appointment, error)
	MarkCompletedIfScheduled(ctx context.Context, id uint64, providerID string) (int64, error)
	MarkCanceledIfScheduled(ctx context.Context, id uint64, clientID string) (int64, error)
	ListByClient(ctx context.Context, clientID string) ([]model.Appointment, error)
	SetDB(db *gorm.DB)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uint64) (*model.Appointment, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var a model.Appointment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// MarkCompletedIfScheduled reports 1 only for the call that performs the
// scheduled -> completed transition.
func (r *appointmentRepository) MarkCompletedIfScheduled(ctx context.Context, id uint64, providerID string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ? AND provider_id = ? AND status = ?", id, providerID, model.AppointmentStatusScheduled).
		Updates(map[string]interface{}{
			"status":       model.AppointmentStatusCompleted,
			"completed_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *appointmentRepository) MarkCanceledIfScheduled(ctx context.Context, id uint64, clientID string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ? AND client_id = ? AND status = ?", id, clientID, model.AppointmentStatusScheduled).
		Updates(map[string]interface{}{
			"status":      model.AppointmentStatusCanceled,
			"canceled_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *appointmentRepository) ListByClient(ctx context.Context, clientID string) ([]model.Appointment, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Appointment
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *appointmentRepository) SetDB(db *gorm.DB) {
	r.db = db
}
