package service

import (
	"context"
	"testing"

	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/repository"
	dbtest "github.com/serviconnect/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type badgeSnapshot struct {
	Name            string
	Description     string
	IconURL         string
	RuleKind        model.RuleKind
	PointsThreshold int64
	EventTrigger    model.EventKind
	RequiredCount   int64
}

func snapshotBadges(t *testing.T, svc GamificationService) map[string]badgeSnapshot {
	t.Helper()
	badges, err := svc.ListBadges(context.Background())
	require.NoError(t, err)
	out := make(map[string]badgeSnapshot, len(badges))
	for _, b := range badges {
		s := badgeSnapshot{Name: b.Name, Description: b.Description, RuleKind: b.RuleKind}
		if b.IconURL != nil {
			s.IconURL = *b.IconURL
		}
		if b.PointsThreshold != nil {
			s.PointsThreshold = *b.PointsThreshold
		}
		if b.EventTrigger != nil {
			s.EventTrigger = *b.EventTrigger
		}
		if b.RequiredCount != nil {
			s.RequiredCount = *b.RequiredCount
		}
		out[b.Name] = s
	}
	return out
}

func TestSeedBadges_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.DB(t)
	svc := NewGamificationService(repository.NewGamificationRepository(db), dbtest.Logger(t))

	first, err := svc.SeedBadges(ctx)
	require.NoError(t, err)
	assert.Len(t, first.Upserted, len(DefaultBadgeCatalog()))
	once := snapshotBadges(t, svc)

	second, err := svc.SeedBadges(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Failed)
	assert.Equal(t, once, snapshotBadges(t, svc))

	assert.Equal(t, badgeSnapshot{
		Name:          BadgeFrequentCustomer,
		Description:   "Concluiu 5 agendamentos.",
		RuleKind:      model.RuleCountThreshold,
		EventTrigger:  model.EventAppointmentCompleted,
		RequiredCount: 5,
	}, once[BadgeFrequentCustomer])
	assert.Equal(t, int64(100), once[BadgePointsMaster].PointsThreshold)
}

func TestSeedBadges_UpdatesExistingByName(t *testing.T) {
	ctx := context.Background()
	db := dbtest.DB(t)
	repo := repository.NewGamificationRepository(db)
	_, err := NewGamificationService(repo, nil).SeedBadges(ctx)
	require.NoError(t, err)

	before, err := repo.ListBadges(ctx)
	require.NoError(t, err)

	catalog := DefaultBadgeCatalog()
	catalog[4].Description = "Acumulou 150 pontos."
	catalog[4].Rule = model.ThresholdRule{Points: 150}
	catalog = ApplyIconURLs(catalog, map[string]string{"mestre-dos-pontos": "https://cdn.test/mestre.png"})

	svc := NewGamificationService(repo, nil, WithBadgeCatalog(catalog))
	_, err = svc.SeedBadges(ctx)
	require.NoError(t, err)

	after, err := repo.ListBadges(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	master := after[4]
	assert.Equal(t, before[4].ID, master.ID)
	assert.Equal(t, "Acumulou 150 pontos.", master.Description)
	require.NotNil(t, master.PointsThreshold)
	assert.Equal(t, int64(150), *master.PointsThreshold)
	require.NotNil(t, master.IconURL)
	assert.Equal(t, "https://cdn.test/mestre.png", *master.IconURL)

	// Reseeding without icons keeps the uploaded one.
	_, err = NewGamificationService(repo, nil).SeedBadges(ctx)
	require.NoError(t, err)
	again, err := repo.ListBadges(ctx)
	require.NoError(t, err)
	require.NotNil(t, again[4].IconURL)
	assert.Equal(t, "https://cdn.test/mestre.png", *again[4].IconURL)
}

func TestSeedBadges_SkipsInvalidDefinitions(t *testing.T) {
	ctx := context.Background()
	db := dbtest.DB(t)
	logger, logs := dbtest.ObservedLogger()
	catalog := []BadgeDefinition{
		{Name: "Válido", Description: "ok", Rule: model.ThresholdRule{Points: 10}},
		{Name: "Sem contagem", Description: "x", Rule: model.CountThresholdRule{Event: model.EventReviewCreated}},
		{Name: "   ", Description: "x", Rule: model.AlwaysOnTriggerRule{Event: model.EventUserRegistered}},
		{Name: "Sem regra", Description: "x"},
		{Name: "Outro válido", Description: "ok", Rule: model.FirstOccurrenceRule{Event: model.EventReviewCreated}},
	}
	svc := NewGamificationService(repository.NewGamificationRepository(db), logger, WithBadgeCatalog(catalog))

	report, err := svc.SeedBadges(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Válido", "Outro válido"}, report.Upserted)
	require.Len(t, report.Failed, 3)
	assert.Equal(t, "Sem contagem", report.Failed[0].Name)
	assert.ErrorIs(t, report.Failed[0].Err, model.ErrInvalidBadgeRule)
	assert.ErrorIs(t, report.Failed[1].Err, ErrInvalidInput)
	assert.ErrorIs(t, report.Failed[2].Err, model.ErrInvalidBadgeRule)
	assert.Equal(t, 3, logs.FilterMessage("badge seed failed").Len())

	badges, err := svc.ListBadges(ctx)
	require.NoError(t, err)
	assert.Len(t, badges, 2)
}

func TestSeedBadges_DBNotReady(t *testing.T) {
	svc := NewGamificationService(repository.NewGamificationRepository(nil), nil)
	report, err := svc.SeedBadges(context.Background())
	assert.ErrorIs(t, err, repository.ErrDBNotReady)
	assert.Empty(t, report.Upserted)
}

func TestDefaultBadgeCatalog(t *testing.T) {
	catalog := DefaultBadgeCatalog()
	seen := map[string]bool{}
	for _, def := range catalog {
		assert.False(t, seen[def.Name], "duplicate badge %q", def.Name)
		seen[def.Name] = true
		assert.NotEmpty(t, def.Slug)
		b := &model.Badge{Name: def.Name}
		assert.NoError(t, b.SetRule(def.Rule), def.Name)
	}

	catalog[0].Name = "changed"
	assert.Equal(t, BadgeWelcome, DefaultBadgeCatalog()[0].Name)
}

func TestEventPoints(t *testing.T) {
	assert.Equal(t, int64(5), EventPoints(model.EventAppointmentCompleted))
	assert.Equal(t, int64(3), EventPoints(model.EventReviewCreated))
	assert.Zero(t, EventPoints(model.EventUserRegistered))
	assert.Zero(t, EventPoints(model.EventKind("POST_LIKED")))
}
