package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/repository"
	"gorm.io/gorm"
)

type ReviewService interface {
	Create(ctx context.Context, appointmentID uint64, authorID string, rating int, comment string) (*model.Review, error)
	ListByAppointment(ctx context.Context, appointmentID uint64) ([]model.Review, error)
}

type reviewService struct {
	repo         repository.ReviewRepository
	appointments repository.AppointmentRepository
	gamification GamificationService
}

func NewReviewService(repo repository.ReviewRepository, appointments repository.AppointmentRepository, gamification GamificationService) ReviewService {
	return &reviewService{repo: repo, appointments: appointments, gamification: gamification}
}

func (s *reviewService) Create(ctx context.Context, appointmentID uint64, authorID string, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	a, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.ClientID != authorID {
		return nil, ErrForbidden
	}
	if a.Status != model.AppointmentStatusCompleted {
		return nil, fmt.Errorf("%w: only completed appointments can be reviewed", ErrConflict)
	}
	exists, err := s.repo.ExistsForAppointment(ctx, appointmentID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: appointment already reviewed", ErrConflict)
	}

	rv := &model.Review{
		AppointmentID: appointmentID,
		AuthorID:      authorID,
		Rating:        rating,
		Comment:       strings.TrimSpace(comment),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: appointment already reviewed", ErrConflict)
		}
		return nil, err
	}

	_, _ = s.gamification.TriggerEvent(ctx, authorID, model.EventReviewCreated, map[string]interface{}{
		"appointmentId": appointmentID,
		"reviewId":      rv.ID,
	})
	return rv, nil
}

func (s *reviewService) ListByAppointment(ctx context.Context, appointmentID uint64) ([]model.Review, error) {
	return s.repo.ListByAppointment(ctx, appointmentID)
}
