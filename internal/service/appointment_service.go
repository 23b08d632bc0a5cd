package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/repository"
	"gorm.io/gorm"
)

type AppointmentService interface {
	Book(ctx context.Context, clientID string, offeringID uint64, scheduledAt time.Time) (*model.Appointment, error)
	Get(ctx context.Context, id uint64, uid string) (*model.Appointment, error)
	Complete(ctx context.Context, id uint64, providerID string) (*model.Appointment, error)
	Cancel(ctx context.Context, id uint64, clientID string) (*model.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]model.Appointment, error)
}

type appointmentService struct {
	repo         repository.AppointmentRepository
	offerings    repository.OfferingRepository
	gamification GamificationService
}

func NewAppointmentService(repo repository.AppointmentRepository, offerings repository.OfferingRepository, gamification GamificationService) AppointmentService {
	return &appointmentService{repo: repo, offerings: offerings, gamification: gamification}
}

func (s *appointmentService) Book(ctx context.Context, clientID string, offeringID uint64, scheduledAt time.Time) (*model.Appointment, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: client is required", ErrInvalidInput)
	}
	if scheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}
	o, err := s.offerings.FindByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.ProviderID == clientID {
		return nil, fmt.Errorf("%w: cannot book your own offering", ErrInvalidInput)
	}
	a := &model.Appointment{
		OfferingID:  o.ID,
		ClientID:    clientID,
		ProviderID:  o.ProviderID,
		Status:      model.AppointmentStatusScheduled,
		ScheduledAt: scheduledAt.UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *appointmentService) Get(ctx context.Context, id uint64, uid string) (*model.Appointment, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if uid != "" && uid != a.ClientID && uid != a.ProviderID {
		return nil, ErrForbidden
	}
	return a, nil
}

// Complete moves a scheduled appointment to completed. Only the call that
// performs the transition triggers APPOINTMENT_COMPLETED for the client;
// completing twice returns the appointment unchanged.
func (s *appointmentService) Complete(ctx context.Context, id uint64, providerID string) (*model.Appointment, error) {
	rows, err := s.repo.MarkCompletedIfScheduled(ctx, id, providerID)
	if err != nil {
		return nil, err
	}
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ProviderID != providerID {
		return nil, ErrForbidden
	}
	if rows == 0 {
		if a.Status == model.AppointmentStatusCompleted {
			return a, nil
		}
		return nil, fmt.Errorf("%w: appointment is %s", ErrConflict, a.Status)
	}

	_, _ = s.gamification.TriggerEvent(ctx, a.ClientID, model.EventAppointmentCompleted, map[string]interface{}{
		"appointmentId": a.ID,
		"offeringId":    a.OfferingID,
	})
	return a, nil
}

func (s *appointmentService) Cancel(ctx context.Context, id uint64, clientID string) (*model.Appointment, error) {
	rows, err := s.repo.MarkCanceledIfScheduled(ctx, id, clientID)
	if err != nil {
		return nil, err
	}
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ClientID != clientID {
		return nil, ErrForbidden
	}
	if rows == 0 && a.Status != model.AppointmentStatusCanceled {
		return nil, fmt.Errorf("%w: appointment is %s", ErrConflict, a.Status)
	}
	return a, nil
}

func (s *appointmentService) ListByClient(ctx context.Context, clientID string) ([]model.Appointment, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: client is required", ErrInvalidInput)
	}
	return s.repo.ListByClient(ctx, clientID)
}

func (s *appointmentService) find(ctx context.Context, id uint64) (*model.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
