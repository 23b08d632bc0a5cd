package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/repository"
	"gorm.io/gorm"
)

type UserService interface {
	// Register creates a user. id may be empty, in which case a UUID is
	// generated. The welcome gamification event is triggered afterwards.
	Register(ctx context.Context, id, name, email string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo         repository.UserRepository
	gamification GamificationService
}

func NewUserService(repo repository.UserRepository, gamification GamificationService) UserService {
	return &userService{repo: repo, gamification: gamification}
}

func (s *userService) Register(ctx context.Context, id, name, email string) (*model.User, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || len(name) > 120 {
		return nil, fmt.Errorf("%w: invalid name", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if id == "" {
		id = uuid.NewString()
	}
	if existing, err := s.repo.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	u := &model.User{ID: id, Name: name, Email: email}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already registered", ErrConflict)
		}
		return nil, err
	}
	if res, _ := s.gamification.TriggerEvent(ctx, u.ID, model.EventUserRegistered, nil); res != nil && res.Outcome == OutcomeApplied {
		u.Points = res.Points
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
