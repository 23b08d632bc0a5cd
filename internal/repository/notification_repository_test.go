package repository_test

import (
	"context"
	"testing"

	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/repository"
	"github.com/serviconnect/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationCreateDeduplicatesBadge(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := repository.NewNotificationRepository(db)
	testutil.SeedUser(t, ctx, db, "u1")
	testutil.SeedUser(t, ctx, db, "u2")
	b := testutil.SeedBadge(t, ctx, db, "Primeiro", model.FirstOccurrenceRule{Event: model.EventReviewCreated})

	badgeNote := func(userID string) *model.Notification {
		return &model.Notification{UserID: userID, Type: model.NotificationTypeBadgeAwarded, Title: "Nova conquista", BadgeID: &b.ID}
	}
	require.NoError(t, repo.Create(ctx, badgeNote("u1")))
	assert.ErrorIs(t, repo.Create(ctx, badgeNote("u1")), repository.ErrDuplicateNotification)
	require.NoError(t, repo.Create(ctx, badgeNote("u2")))

	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u1", Type: "system", Title: "a"}))
	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u1", Type: "system", Title: "b"}))

	n, err := repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestNotificationListFilters(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := repository.NewNotificationRepository(db)
	testutil.SeedUser(t, ctx, db, "u1")
	b := testutil.SeedBadge(t, ctx, db, "Primeiro", model.FirstOccurrenceRule{Event: model.EventReviewCreated})

	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u1", Type: model.NotificationTypeBadgeAwarded, Title: "badge", BadgeID: &b.ID}))
	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u1", Type: "system", Title: "system"}))

	all, err := repo.ListByUser(ctx, "u1", repository.NotificationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	badges, err := repo.ListByUser(ctx, "u1", repository.NotificationFilter{Type: model.NotificationTypeBadgeAwarded})
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "badge", badges[0].Title)

	require.NoError(t, repo.MarkAllRead(ctx, "u1"))
	unread, err := repo.ListByUser(ctx, "u1", repository.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)

	awards, err := repo.ListBadgeAwards(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, "Primeiro", awards[0].BadgeName)
	assert.Equal(t, "u1", awards[0].Notification.UserID)
	require.NotNil(t, awards[0].Notification.BadgeID)
	assert.Equal(t, b.ID, *awards[0].Notification.BadgeID)
	assert.NotNil(t, awards[0].Notification.ReadAt)
}

func TestNotificationRepositoryDBNotReady(t *testing.T) {
	repo := repository.NewNotificationRepository(nil)
	_, err := repo.ListBadgeAwards(context.Background(), "u1", 10)
	assert.ErrorIs(t, err, repository.ErrDBNotReady)
	assert.ErrorIs(t, repo.Create(context.Background(), &model.Notification{}), repository.ErrDBNotReady)
}
