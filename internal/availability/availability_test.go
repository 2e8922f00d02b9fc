package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

func slot(max int, available bool) *models.AvailabilitySlot {
	return &models.AvailabilitySlot{ID: 1, ExcursionID: 1, MaxParticipants: max, IsAvailable: available}
}

func confirmed(participants int) models.Booking {
	return models.Booking{Status: models.BookingStatusConfirmed, ParticipantsCount: participants}
}

func TestCompute_NoBookings(t *testing.T) {
	result := Compute(slot(10, true), nil)

	assert.Equal(t, 10, result.SpotsLeft)
	assert.True(t, result.IsAvailable)
}

func TestCompute_CountsOnlyConfirmed(t *testing.T) {
	bookings := []models.Booking{
		confirmed(2),
		{Status: models.BookingStatusPending, ParticipantsCount: 5},
		{Status: models.BookingStatusOnHold, ParticipantsCount: 5},
		{Status: models.BookingStatusCancelled, ParticipantsCount: 5},
		{Status: models.BookingStatusCompleted, ParticipantsCount: 5},
		confirmed(3),
	}

	result := Compute(slot(10, true), bookings)

	assert.Equal(t, 5, result.SpotsLeft)
	assert.True(t, result.IsAvailable)
}

func TestCompute_PartiallyBooked(t *testing.T) {
	// 10 max, confirmed bookings summing to 7 → 3 spots left
	bookings := []models.Booking{confirmed(4), confirmed(3)}

	result := Compute(slot(10, true), bookings)

	assert.Equal(t, 3, result.SpotsLeft)
	assert.True(t, result.IsAvailable)
}

func TestCompute_FullSlotNotAvailable(t *testing.T) {
	// 4 max, confirmed bookings summing to 4 → sold out even with the flag on
	bookings := []models.Booking{confirmed(2), confirmed(2)}

	result := Compute(slot(4, true), bookings)

	assert.Equal(t, 0, result.SpotsLeft)
	assert.False(t, result.IsAvailable)
}

func TestCompute_OverbookedFloorsAtZero(t *testing.T) {
	// Confirmed sum exceeding capacity must never report negative spots
	bookings := []models.Booking{confirmed(8), confirmed(5)}

	result := Compute(slot(10, true), bookings)

	assert.Equal(t, 0, result.SpotsLeft)
	assert.False(t, result.IsAvailable)
}

func TestCompute_FlagOffWinsOverFreeSpots(t *testing.T) {
	result := Compute(slot(10, false), []models.Booking{confirmed(2)})

	assert.Equal(t, 8, result.SpotsLeft)
	assert.False(t, result.IsAvailable)
}

func TestCompute_NegativeParticipantsClamped(t *testing.T) {
	// Malformed rows must not inflate remaining capacity
	bookings := []models.Booking{confirmed(-3), confirmed(4)}

	result := Compute(slot(10, true), bookings)

	assert.Equal(t, 6, result.SpotsLeft)
}

func TestComputeFromCount(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		flag      bool
		confirmed int
		spots     int
		available bool
	}{
		{"empty slot", 10, true, 0, 10, true},
		{"partially booked", 10, true, 7, 3, true},
		{"exactly full", 4, true, 4, 0, false},
		{"overbooked", 4, true, 9, 0, false},
		{"flag off", 6, false, 1, 5, false},
		{"negative sum clamped", 6, true, -2, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeFromCount(slot(tt.max, tt.flag), tt.confirmed)
			assert.Equal(t, tt.spots, result.SpotsLeft)
			assert.Equal(t, tt.available, result.IsAvailable)
		})
	}
}

func TestComputeBulk(t *testing.T) {
	slots := []models.AvailabilitySlot{
		{ID: 1, MaxParticipants: 10, IsAvailable: true},
		{ID: 2, MaxParticipants: 4, IsAvailable: true},
		{ID: 3, MaxParticipants: 8, IsAvailable: false},
	}
	confirmed := map[int64]int{1: 7, 2: 4}

	result := ComputeBulk(slots, confirmed)

	assert.Len(t, result, 3)
	assert.Equal(t, Availability{SpotsLeft: 3, IsAvailable: true}, result[1])
	assert.Equal(t, Availability{SpotsLeft: 0, IsAvailable: false}, result[2])
	// Slot 3 has no confirmed bookings at all but the guide disabled it
	assert.Equal(t, Availability{SpotsLeft: 8, IsAvailable: false}, result[3])
}
