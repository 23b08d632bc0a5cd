package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/repository"
	"github.com/serviconnect/backend/internal/reqctx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type TriggerOutcome string

const (
	OutcomeApplied      TriggerOutcome = "applied"
	OutcomeUserNotFound TriggerOutcome = "user_not_found"
	OutcomeFailed       TriggerOutcome = "failed"
)

// TriggerResult describes what a TriggerEvent call committed. Points is the
// user's balance after the call; it is zero unless Outcome is OutcomeApplied.
type TriggerResult struct {
	UserID        string
	Event         model.EventKind
	Outcome       TriggerOutcome
	PointsAwarded int64
	Points        int64
	AwardedBadges []model.Badge
	Err           error
}

type SeedFailure struct {
	Name string
	Err  error
}

type SeedReport struct {
	Upserted []string
	Failed   []SeedFailure
}

type UserGamificationSummary struct {
	UserID string
	Points int64
	Badges []model.Badge
}

type GamificationService interface {
	// TriggerEvent awards points for kind and any badge that becomes eligible,
	// all in one transaction. Failures are reported in the result; the error
	// is only returned when strict errors are enabled.
	TriggerEvent(ctx context.Context, userID string, kind model.EventKind, meta map[string]interface{}) (*TriggerResult, error)
	// TriggerEventAsync runs TriggerEvent detached from ctx cancellation. The
	// channel yields exactly one result and is then closed.
	TriggerEventAsync(ctx context.Context, userID string, kind model.EventKind, meta map[string]interface{}) <-chan *TriggerResult
	SeedBadges(ctx context.Context) (*SeedReport, error)
	ListBadges(ctx context.Context) ([]model.Badge, error)
	UserSummary(ctx context.Context, userID string) (*UserGamificationSummary, error)
}

type GamificationOption func(*gamificationService)

// WithStrictErrors makes TriggerEvent return transaction failures in addition
// to reporting them in the result.
func WithStrictErrors(strict bool) GamificationOption {
	return func(s *gamificationService) {
		s.strict = strict
	}
}

func WithBadgeCatalog(defs []BadgeDefinition) GamificationOption {
	return func(s *gamificationService) {
		s.catalog = defs
	}
}

// WithNotifier sends a notification for every badge awarded.
func WithNotifier(n NotificationService) GamificationOption {
	return func(s *gamificationService) {
		s.notifier = n
	}
}

type gamificationService struct {
	repo     repository.GamificationRepository
	logger   *zap.Logger
	catalog  []BadgeDefinition
	notifier NotificationService
	strict   bool
}

func NewGamificationService(repo repository.GamificationRepository, logger *zap.Logger, opts ...GamificationOption) GamificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &gamificationService{
		repo:    repo,
		logger:  logger,
		catalog: DefaultBadgeCatalog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type appliedTrigger struct {
	pointsAwarded int64
	points        int64
	awarded       []model.Badge
}

func (s *gamificationService) TriggerEvent(ctx context.Context, userID string, kind model.EventKind, meta map[string]interface{}) (*TriggerResult, error) {
	res := &TriggerResult{UserID: userID, Event: kind}
	fields := s.logFields(ctx, userID, kind)

	var applied *appliedTrigger
	err := s.repo.Transaction(ctx, func(repo repository.GamificationRepository) error {
		a, err := s.apply(ctx, repo, userID, kind, meta)
		if err != nil {
			return err
		}
		applied = a
		return nil
	})

	switch {
	case err == nil:
		res.Outcome = OutcomeApplied
		res.PointsAwarded = applied.pointsAwarded
		res.Points = applied.points
		res.AwardedBadges = applied.awarded
	case errors.Is(err, ErrUserNotFound):
		res.Outcome = OutcomeUserNotFound
		s.logger.Info("gamification skipped: user not found", fields...)
		observeTrigger(res)
		return res, nil
	default:
		res.Outcome = OutcomeFailed
		res.Err = err
		s.logger.Error("gamification trigger failed", append(fields, zap.Error(err))...)
		observeTrigger(res)
		if s.strict {
			return res, err
		}
		return res, nil
	}

	observeTrigger(res)
	if len(res.AwardedBadges) > 0 || res.PointsAwarded > 0 {
		s.logger.Info("gamification trigger applied", append(fields,
			zap.Int64("points_awarded", res.PointsAwarded),
			zap.Int64("points", res.Points),
			zap.Strings("badges", badgeNames(res.AwardedBadges)))...)
	}
	s.notifyAwards(ctx, userID, res.AwardedBadges)
	return res, nil
}

func (s *gamificationService) TriggerEventAsync(ctx context.Context, userID string, kind model.EventKind, meta map[string]interface{}) <-chan *TriggerResult {
	ch := make(chan *TriggerResult, 1)
	detached := context.WithoutCancel(ctx)
	go func() {
		defer close(ch)
		defer func() {
			if p := recover(); p != nil {
				err := fmt.Errorf("gamification panic: %v", p)
				s.logger.Error("gamification trigger panicked", append(s.logFields(detached, userID, kind), zap.Error(err))...)
				ch <- &TriggerResult{UserID: userID, Event: kind, Outcome: OutcomeFailed, Err: err}
			}
		}()
		res, _ := s.TriggerEvent(detached, userID, kind, meta)
		ch <- res
	}()
	return ch
}

func (s *gamificationService) apply(ctx context.Context, repo repository.GamificationRepository, userID string, kind model.EventKind, meta map[string]interface{}) (*appliedTrigger, error) {
	user, err := repo.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	out := &appliedTrigger{}
	if pts := EventPoints(kind); pts > 0 {
		ev := &model.GamificationEvent{
			UserID:        userID,
			EventType:     kind,
			PointsAwarded: pts,
		}
		if len(meta) > 0 {
			ev.Metadata = datatypes.JSONMap(meta)
		}
		if err := repo.InsertEvent(ctx, ev); err != nil {
			return nil, fmt.Errorf("insert event: %w", err)
		}
		user, err = repo.IncrementUserPoints(ctx, userID, pts)
		if err != nil {
			return nil, fmt.Errorf("increment points: %w", err)
		}
		out.pointsAwarded = pts
	}
	out.points = user.Points

	awarded, err := s.awardBadges(ctx, repo, user, kind)
	if err != nil {
		return nil, err
	}
	out.awarded = awarded
	return out, nil
}

// awardBadges evaluates every badge the user does not own yet. Badges awarded
// during the pass join the owned set immediately, and each insert is preceded
// by an explicit ownership check inside the transaction.
func (s *gamificationService) awardBadges(ctx context.Context, repo repository.GamificationRepository, user *model.User, kind model.EventKind) ([]model.Badge, error) {
	badges, err := repo.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	ownedIDs, err := repo.ListUserBadgeIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	owned := make(map[uint64]struct{}, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = struct{}{}
	}

	counter := &occurrenceCounter{repo: repo, userID: user.ID, kind: kind}
	var awarded []model.Badge
	for i := range badges {
		b := badges[i]
		if _, ok := owned[b.ID]; ok {
			continue
		}
		rule, err := b.Rule()
		if err != nil {
			return nil, err
		}
		ok, err := ruleEligible(ctx, rule, user, kind, counter)
		if err != nil {
			return nil, fmt.Errorf("evaluate badge %q: %w", b.Name, err)
		}
		if !ok {
			continue
		}
		has, err := repo.HasUserBadge(ctx, user.ID, b.ID)
		if err != nil {
			return nil, fmt.Errorf("check badge %q: %w", b.Name, err)
		}
		if has {
			owned[b.ID] = struct{}{}
			continue
		}
		if err := repo.InsertUserBadge(ctx, &model.UserBadge{UserID: user.ID, BadgeID: b.ID}); err != nil {
			if errors.Is(err, repository.ErrDuplicateAward) {
				owned[b.ID] = struct{}{}
				continue
			}
			return nil, fmt.Errorf("award badge %q: %w", b.Name, err)
		}
		owned[b.ID] = struct{}{}
		awarded = append(awarded, b)
	}
	return awarded, nil
}

// occurrenceCounter counts the triggering event kind at most once per pass.
type occurrenceCounter struct {
	repo    repository.GamificationRepository
	userID  string
	kind    model.EventKind
	loaded  bool
	current int64
}

func (c *occurrenceCounter) count(ctx context.Context) (int64, error) {
	if c.loaded {
		return c.current, nil
	}
	n, err := c.repo.CountEvents(ctx, c.userID, c.kind)
	if err != nil {
		return 0, err
	}
	c.current, c.loaded = n, true
	return n, nil
}

func ruleEligible(ctx context.Context, rule model.BadgeRule, user *model.User, kind model.EventKind, counter *occurrenceCounter) (bool, error) {
	switch r := rule.(type) {
	case model.ThresholdRule:
		return user.Points >= r.Points, nil
	case model.AlwaysOnTriggerRule:
		return r.Event == kind, nil
	case model.FirstOccurrenceRule:
		if r.Event != kind {
			return false, nil
		}
		n, err := counter.count(ctx)
		if err != nil {
			return false, err
		}
		return n == 1, nil
	case model.CountThresholdRule:
		if r.Event != kind {
			return false, nil
		}
		n, err := counter.count(ctx)
		if err != nil {
			return false, err
		}
		return n >= r.RequiredCount, nil
	default:
		return false, fmt.Errorf("%w: unsupported rule %T", model.ErrInvalidBadgeRule, rule)
	}
}

func (s *gamificationService) notifyAwards(ctx context.Context, userID string, badges []model.Badge) {
	if s.notifier == nil {
		return
	}
	for i := range badges {
		b := badges[i]
		s.notifier.Notify(ctx, userID, model.NotificationTypeBadgeAwarded,
			"Nova conquista: "+b.Name, b.Description, &b.ID)
	}
}

// SeedBadges upserts every catalog definition by name. A definition that
// fails is logged and reported, and the remaining ones are still written.
func (s *gamificationService) SeedBadges(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}
	for _, def := range s.catalog {
		name := strings.TrimSpace(def.Name)
		b := &model.Badge{
			Name:        name,
			Description: strings.TrimSpace(def.Description),
			IconURL:     def.IconURL,
		}
		err := b.SetRule(def.Rule)
		if err == nil && name == "" {
			err = fmt.Errorf("%w: badge name is required", ErrInvalidInput)
		}
		if err == nil {
			err = s.repo.UpsertBadgeByName(ctx, b)
			if errors.Is(err, repository.ErrDBNotReady) {
				return report, err
			}
		}
		if err != nil {
			s.logger.Error("badge seed failed", zap.String("badge", def.Name), zap.Error(err))
			report.Failed = append(report.Failed, SeedFailure{Name: def.Name, Err: err})
			continue
		}
		report.Upserted = append(report.Upserted, name)
	}
	s.logger.Info("badge catalog seeded",
		zap.Int("upserted", len(report.Upserted)),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

func (s *gamificationService) ListBadges(ctx context.Context) ([]model.Badge, error) {
	return s.repo.ListBadges(ctx)
}

func (s *gamificationService) UserSummary(ctx context.Context, userID string) (*UserGamificationSummary, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	badges, err := s.repo.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserGamificationSummary{UserID: user.ID, Points: user.Points, Badges: badges}, nil
}

func (s *gamificationService) logFields(ctx context.Context, userID string, kind model.EventKind) []zap.Field {
	fields := []zap.Field{
		zap.String("user_id", userID),
		zap.String("event", string(kind)),
	}
	if rid := reqctx.RequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	return fields
}

func badgeNames(badges []model.Badge) []string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return names
}
