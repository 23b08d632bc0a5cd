package service

import (
	"context"
	"testing"
	"time"

	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/repository"
	dbtest "github.com/serviconnect/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type marketplace struct {
	db           *gorm.DB
	gamification GamificationService
	users        UserService
	offerings    OfferingService
	appointments AppointmentService
	reviews      ReviewService
}

func newMarketplace(t *testing.T) marketplace {
	t.Helper()
	db := dbtest.DB(t)
	logger := dbtest.Logger(t)
	userRepo := repository.NewUserRepository(db)
	offeringRepo := repository.NewOfferingRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)

	gam := NewGamificationService(repository.NewGamificationRepository(db), logger)
	_, err := gam.SeedBadges(context.Background())
	require.NoError(t, err)

	return marketplace{
		db:           db,
		gamification: gam,
		users:        NewUserService(userRepo, gam),
		offerings:    NewOfferingService(offeringRepo, userRepo),
		appointments: NewAppointmentService(apptRepo, offeringRepo, gam),
		reviews:      NewReviewService(repository.NewReviewRepository(db), apptRepo, gam),
	}
}

func (m marketplace) summary(t *testing.T, userID string) *UserGamificationSummary {
	t.Helper()
	sum, err := m.gamification.UserSummary(context.Background(), userID)
	require.NoError(t, err)
	return sum
}

// bookedAppointment registers a provider and a client and books one slot.
func (m marketplace) bookedAppointment(t *testing.T) (*model.User, *model.User, *model.Appointment) {
	t.Helper()
	ctx := context.Background()
	provider, err := m.users.Register(ctx, "provider-1", "Ana Prestadora", "ana@example.com")
	require.NoError(t, err)
	client, err := m.users.Register(ctx, "client-1", "Bruno Cliente", "bruno@example.com")
	require.NoError(t, err)
	o, err := m.offerings.Create(ctx, provider.ID, "Limpeza residencial", "Limpeza completa", 12000)
	require.NoError(t, err)
	a, err := m.appointments.Book(ctx, client.ID, o.ID, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	return provider, client, a
}

func TestUserService_RegisterAwardsWelcomeBadge(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)

	u, err := m.users.Register(ctx, "", "  Carla  ", "Carla@Example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Carla", u.Name)
	assert.Equal(t, "carla@example.com", u.Email)
	assert.Zero(t, u.Points)

	sum := m.summary(t, u.ID)
	assert.Equal(t, []string{BadgeWelcome}, badgeNames(sum.Badges))
}

func TestUserService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)

	_, err := m.users.Register(ctx, "", "", "a@example.com")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = m.users.Register(ctx, "", "Dani", "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = m.users.Register(ctx, "uid-1", "Dani", "dani@example.com")
	require.NoError(t, err)
	_, err = m.users.Register(ctx, "uid-2", "Dani 2", "dani@example.com")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = m.users.Register(ctx, "uid-1", "Dani 3", "dani3@example.com")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = m.users.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOfferingService(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	p, err := m.users.Register(ctx, "p1", "Prestador", "p1@example.com")
	require.NoError(t, err)

	_, err = m.offerings.Create(ctx, "nobody", "Aula", "Aula de violão", 5000)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = m.offerings.Create(ctx, p.ID, "", "Aula de violão", 5000)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = m.offerings.Create(ctx, p.ID, "Aula", "Aula de violão", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	for i := 0; i < 3; i++ {
		_, err := m.offerings.Create(ctx, p.ID, "Aula", "Aula de violão", int64(5000+i))
		require.NoError(t, err)
	}
	list, total, err := m.offerings.List(ctx, p.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 2)

	got, err := m.offerings.Get(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ProviderID)
	_, err = m.offerings.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppointmentService_CompleteTriggersOnce(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	provider, client, a := m.bookedAppointment(t)

	done, err := m.appointments.Complete(ctx, a.ID, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	again, err := m.appointments.Complete(ctx, a.ID, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, again.Status)

	sum := m.summary(t, client.ID)
	assert.Equal(t, int64(5), sum.Points)
	assert.Equal(t, []string{BadgeWelcome, BadgeFirstAppointment}, badgeNames(sum.Badges))

	var ev model.GamificationEvent
	require.NoError(t, m.db.Where("user_id = ?", client.ID).First(&ev).Error)
	assert.EqualValues(t, a.ID, ev.Metadata["appointmentId"])

	assert.Zero(t, m.summary(t, provider.ID).Points)
}

func TestAppointmentService_Permissions(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	provider, client, a := m.bookedAppointment(t)

	_, err := m.appointments.Complete(ctx, a.ID, client.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = m.appointments.Cancel(ctx, a.ID, provider.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = m.appointments.Get(ctx, a.ID, "stranger")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = m.appointments.Complete(ctx, 9999, provider.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := m.appointments.Get(ctx, a.ID, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, got.Status)

	_, err = m.appointments.Book(ctx, provider.ID, a.OfferingID, time.Now())
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = m.appointments.Book(ctx, client.ID, 9999, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppointmentService_CancelBlocksCompletion(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	provider, client, a := m.bookedAppointment(t)

	canceled, err := m.appointments.Cancel(ctx, a.ID, client.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCanceled, canceled.Status)

	_, err = m.appointments.Complete(ctx, a.ID, provider.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Zero(t, m.summary(t, client.ID).Points)

	list, err := m.appointments.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.AppointmentStatusCanceled, list[0].Status)
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	provider, client, a := m.bookedAppointment(t)

	_, err := m.reviews.Create(ctx, a.ID, client.ID, 5, "Ótimo")
	assert.ErrorIs(t, err, ErrConflict, "scheduled appointments cannot be reviewed")

	_, err = m.appointments.Complete(ctx, a.ID, provider.ID)
	require.NoError(t, err)

	_, err = m.reviews.Create(ctx, a.ID, client.ID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = m.reviews.Create(ctx, a.ID, provider.ID, 5, "")
	assert.ErrorIs(t, err, ErrForbidden)

	rv, err := m.reviews.Create(ctx, a.ID, client.ID, 5, "  Ótimo serviço ")
	require.NoError(t, err)
	assert.Equal(t, "Ótimo serviço", rv.Comment)

	_, err = m.reviews.Create(ctx, a.ID, client.ID, 4, "de novo")
	assert.ErrorIs(t, err, ErrConflict)

	sum := m.summary(t, client.ID)
	assert.Equal(t, int64(8), sum.Points)
	assert.Equal(t, []string{BadgeWelcome, BadgeFirstAppointment, BadgeFirstReview}, badgeNames(sum.Badges))

	list, err := m.reviews.ListByAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFrequentCustomerThroughAppointments(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	provider, client, first := m.bookedAppointment(t)

	_, err := m.appointments.Complete(ctx, first.ID, provider.ID)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		a, err := m.appointments.Book(ctx, client.ID, first.OfferingID, time.Now().Add(time.Duration(i+2)*time.Hour))
		require.NoError(t, err)
		_, err = m.appointments.Complete(ctx, a.ID, provider.ID)
		require.NoError(t, err)
	}

	sum := m.summary(t, client.ID)
	assert.Equal(t, int64(25), sum.Points)
	assert.Contains(t, badgeNames(sum.Badges), BadgeFrequentCustomer)
}
