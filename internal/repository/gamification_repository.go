package repository

import (
	"context"
	"errors"

	"github.com/serviconnect/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GamificationRepository is the persistence side of the gamification engine.
// Methods called on the repository handed to Transaction's callback run inside
// that transaction.
type GamificationRepository interface {
	Transaction(ctx context.Context, fn func(repo GamificationRepository) error) error
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserForUpdate(ctx context.Context, userID string) (*model.User, error)
	IncrementUserPoints(ctx context.Context, userID string, delta int64) (*model.User, error)
	InsertEvent(ctx context.Context, ev *model.GamificationEvent) error
	CountEvents(ctx context.Context, userID string, kind model.EventKind) (int64, error)
	ListBadges(ctx context.Context) ([]model.Badge, error)
	ListUserBadgeIDs(ctx context.Context, userID string) ([]uint64, error)
	ListUserBadges(ctx context.Context, userID string) ([]model.Badge, error)
	HasUserBadge(ctx context.Context, userID string, badgeID uint64) (bool, error)
	InsertUserBadge(ctx context.Context, ub *model.UserBadge) error
	UpsertBadgeByName(ctx context.Context, b *model.Badge) error
	SetDB(db *gorm.DB)
}

type gamificationRepository struct {
	db *gorm.DB
}

func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db}
}

func (r *gamificationRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *gamificationRepository) Transaction(ctx context.Context, fn func(repo GamificationRepository) error) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gamificationRepository{db: tx})
	})
}

// GetUser returns nil, nil when the user does not exist.
func (r *gamificationRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	return r.findUser(r.db.WithContext(ctx), userID)
}

// GetUserForUpdate is GetUser with a row lock. Dialects without row locking
// (sqlite) serialize writers at the database level instead.
func (r *gamificationRepository) GetUserForUpdate(ctx context.Context, userID string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	return r.findUser(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *gamificationRepository) findUser(q *gorm.DB, userID string) (*model.User, error) {
	var u model.User
	if err := q.Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *gamificationRepository) IncrementUserPoints(ctx context.Context, userID string, delta int64) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gamificationRepository) InsertEvent(ctx context.Context, ev *model.GamificationEvent) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *gamificationRepository) CountEvents(ctx context.Context, userID string, kind model.EventKind) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.GamificationEvent{}).
		Where("user_id = ? AND event_type = ?", userID, kind).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *gamificationRepository) ListBadges(ctx context.Context) ([]model.Badge, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Badge
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *gamificationRepository) ListUserBadgeIDs(ctx context.Context, userID string) ([]uint64, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *gamificationRepository) ListUserBadges(ctx context.Context, userID string) ([]model.Badge, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Badge
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.awarded_at ASC, badges.id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *gamificationRepository) HasUserBadge(ctx context.Context, userID string, badgeID uint64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// InsertUserBadge relies on the unique (user_id, badge_id) index. A conflicting
// row is reported as ErrDuplicateAward and leaves the transaction usable.
func (r *gamificationRepository) InsertUserBadge(ctx context.Context, ub *model.UserBadge) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ub)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAward
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateAward
	}
	return nil
}

// UpsertBadgeByName creates b or updates the badge with the same name. The icon
// is only overwritten when b carries one. On return b.ID is set.
func (r *gamificationRepository) UpsertBadgeByName(ctx context.Context, b *model.Badge) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Badge
		err := tx.Where("name = ?", b.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(b).Error
		}
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"description":      b.Description,
			"rule_kind":        b.RuleKind,
			"points_threshold": b.PointsThreshold,
			"event_trigger":    b.EventTrigger,
			"required_count":   b.RequiredCount,
		}
		if b.IconURL != nil {
			updates["icon_url"] = *b.IconURL
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		b.ID = existing.ID
		return nil
	})
}
