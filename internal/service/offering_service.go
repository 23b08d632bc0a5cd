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

type OfferingService interface {
	Create(ctx context.Context, providerID, title, description string, priceCents int64) (*model.Offering, error)
	Get(ctx context.Context, id uint64) (*model.Offering, error)
	List(ctx context.Context, providerID string, limit, offset int) ([]model.Offering, int64, error)
}

type offeringService struct {
	repo  repository.OfferingRepository
	users repository.UserRepository
}

func NewOfferingService(repo repository.OfferingRepository, users repository.UserRepository) OfferingService {
	return &offeringService{repo: repo, users: users}
}

func (s *offeringService) Create(ctx context.Context, providerID, title, description string, priceCents int64) (*model.Offering, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if providerID == "" {
		return nil, fmt.Errorf("%w: provider is required", ErrInvalidInput)
	}
	if title == "" || len(title) > 120 {
		return nil, fmt.Errorf("%w: invalid title", ErrInvalidInput)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: invalid description", ErrInvalidInput)
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if _, err := s.users.FindByID(ctx, providerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider is not registered", ErrForbidden)
		}
		return nil, err
	}

	o := &model.Offering{
		ProviderID:  providerID,
		Title:       title,
		Description: description,
		PriceCents:  priceCents,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *offeringService) Get(ctx context.Context, id uint64) (*model.Offering, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *offeringService) List(ctx context.Context, providerID string, limit, offset int) ([]model.Offering, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, strings.TrimSpace(providerID), limit, offset)
}
