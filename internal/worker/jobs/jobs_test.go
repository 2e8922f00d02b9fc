package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[int64]*models.Booking
}

func newFakeBookingStore(bookings ...*models.Booking) *fakeBookingStore {
	store := &fakeBookingStore{bookings: make(map[int64]*models.Booking)}
	for _, b := range bookings {
		store.bookings[b.ID] = b
	}
	return store
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id], nil
}

func (f *fakeBookingStore) GetPastConfirmed(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusConfirmed {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (f *fakeBookingStore) GetConfirmedForDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	return f.GetPastConfirmed(ctx, date)
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[id].Status = status
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakePublisher) Publish(subject string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return nil
}

func TestCompletionJob_CompletesPastConfirmedBookings(t *testing.T) {
	slotID := int64(5)
	store := newFakeBookingStore(
		&models.Booking{ID: 1, ExcursionID: 10, SlotID: &slotID, Status: models.BookingStatusConfirmed},
		&models.Booking{ID: 2, ExcursionID: 10, SlotID: &slotID, Status: models.BookingStatusConfirmed},
	)
	publisher := &fakePublisher{}

	err := NewCompletionJob(store, publisher).Run(context.Background())
	require.NoError(t, err)

	for _, id := range []int64{1, 2} {
		booking, _ := store.GetByID(context.Background(), id)
		assert.Equal(t, models.BookingStatusCompleted, booking.Status)
	}
	assert.Len(t, publisher.subjects, 2)
	assert.Equal(t, models.EventBookingCompleted, publisher.subjects[0])
}

func TestCompletionJob_NoCandidatesPublishesNothing(t *testing.T) {
	store := newFakeBookingStore(
		&models.Booking{ID: 1, ExcursionID: 10, Status: models.BookingStatusPending},
	)
	publisher := &fakePublisher{}

	err := NewCompletionJob(store, publisher).Run(context.Background())
	require.NoError(t, err)

	booking, _ := store.GetByID(context.Background(), 1)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Empty(t, publisher.subjects)
}

type fakeSlotGetter struct{ slot *models.AvailabilitySlot }

func (f *fakeSlotGetter) GetByID(ctx context.Context, id int64) (*models.AvailabilitySlot, error) {
	return f.slot, nil
}

type fakeProfileGetter struct{ profile *models.Profile }

func (f *fakeProfileGetter) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	return f.profile, nil
}

type fakeExcursionGetter struct{ excursion *models.Excursion }

func (f *fakeExcursionGetter) GetByID(ctx context.Context, id int64) (*models.Excursion, error) {
	return f.excursion, nil
}

type fakeReminderSender struct {
	mu         sync.Mutex
	recipients []string
}

func (f *fakeReminderSender) SendReminder(to, excursionTitle, slotDate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipients = append(f.recipients, to)
	return nil
}

func TestReminderJob_SendsOncePerBooking(t *testing.T) {
	slotID := int64(5)
	clientID := int64(3)
	store := newFakeBookingStore(
		&models.Booking{ID: 1, ExcursionID: 10, SlotID: &slotID, ClientID: &clientID, Status: models.BookingStatusConfirmed},
	)

	sender := &fakeReminderSender{}
	job := NewReminderJob(
		store,
		&fakeSlotGetter{slot: &models.AvailabilitySlot{ID: slotID, StartTime: "09:00"}},
		&fakeProfileGetter{profile: &models.Profile{ID: clientID, Email: "client@example.cm"}},
		&fakeExcursionGetter{excursion: &models.Excursion{ID: 10, Title: "Chutes de la Lobé"}},
		sender,
	)

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, []string{"client@example.cm"}, sender.recipients)
}

func TestReminderJob_SkipsBookingsWithoutClientOrSlot(t *testing.T) {
	slotID := int64(5)
	store := newFakeBookingStore(
		&models.Booking{ID: 1, ExcursionID: 10, SlotID: &slotID, Status: models.BookingStatusConfirmed},
		&models.Booking{ID: 2, ExcursionID: 10, Status: models.BookingStatusConfirmed},
	)

	sender := &fakeReminderSender{}
	job := NewReminderJob(
		store,
		&fakeSlotGetter{},
		&fakeProfileGetter{},
		&fakeExcursionGetter{},
		sender,
	)

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, sender.recipients)
}
