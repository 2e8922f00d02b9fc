// Package availability derives slot capacity from the booking set.
//
// A slot's remaining capacity is never stored: it is recomputed from the
// confirmed bookings referencing the slot every time the booking set
// changes. Only confirmed bookings count against capacity; pending,
// on-hold, cancelled and completed bookings do not.
package availability

import (
	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

// Availability is the derived bookability state of a slot.
type Availability struct {
	SpotsLeft   int
	IsAvailable bool
}

// Compute derives the remaining capacity and bookability of a slot from
// the bookings referencing it. Negative participant counts are clamped to
// zero, and the result never reports negative remaining spots even when
// the confirmed sum exceeds capacity.
func Compute(slot *models.AvailabilitySlot, bookings []models.Booking) Availability {
	booked := 0
	for _, b := range bookings {
		if b.Status != models.BookingStatusConfirmed {
			continue
		}
		if b.ParticipantsCount > 0 {
			booked += b.ParticipantsCount
		}
	}
	return fromBookedCount(slot, booked)
}

// ComputeFromCount derives availability from a precomputed confirmed
// participant sum, as produced by a GROUP BY over the bookings table.
func ComputeFromCount(slot *models.AvailabilitySlot, confirmedParticipants int) Availability {
	if confirmedParticipants < 0 {
		confirmedParticipants = 0
	}
	return fromBookedCount(slot, confirmedParticipants)
}

// ComputeBulk derives availability for a set of slots given a slot id →
// confirmed participant sum map. Slots missing from the map have zero
// confirmed participants.
func ComputeBulk(slots []models.AvailabilitySlot, confirmed map[int64]int) map[int64]Availability {
	result := make(map[int64]Availability, len(slots))
	for i := range slots {
		result[slots[i].ID] = ComputeFromCount(&slots[i], confirmed[slots[i].ID])
	}
	return result
}

func fromBookedCount(slot *models.AvailabilitySlot, booked int) Availability {
	spots := slot.MaxParticipants - booked
	if spots < 0 {
		spots = 0
	}
	return Availability{
		SpotsLeft:   spots,
		IsAvailable: slot.IsAvailable && spots > 0,
	}
}
