package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

// End-to-end booking lifecycle: create an excursion and a slot, submit
// a booking, confirm it, and watch the derived availability shrink.
func TestBookingLifecycle(t *testing.T) {
	client := NewTestClient(t)

	excursion := client.CreateExcursion(t, models.CreateExcursionRequest{
		Title:           "Tour du lac Nyos",
		Destination:     "Wum",
		Category:        "nature",
		DurationMinutes: 240,
		PriceCents:      1500000,
		MaxParticipants: 8,
	})

	slotDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	slot := client.CreateSlot(t, models.CreateSlotRequest{
		ExcursionID:     excursion.ID,
		SlotDate:        slotDate,
		StartTime:       "09:00",
		EndTime:         "13:00",
		MaxParticipants: 8,
		IsAvailable:     true,
	})

	slots := client.ListSlots(t, excursion.ID)
	initial := findSlot(t, slots, slot.ID)
	if initial.AvailableSpots != 8 {
		t.Fatalf("Expected 8 available spots, got %d", initial.AvailableSpots)
	}
	if !initial.IsAvailable {
		t.Fatal("Expected fresh slot to be available")
	}

	booking := client.SubmitBooking(t, models.SubmitBookingRequest{
		ExcursionID:       excursion.ID,
		SlotID:            &slot.ID,
		ParticipantsCount: 3,
	})
	if booking.Status != models.BookingStatusPending {
		t.Fatalf("Expected pending booking, got %s", booking.Status)
	}
	if booking.TotalAmountCents != 4500000 {
		t.Fatalf("Expected total 4500000, got %d", booking.TotalAmountCents)
	}

	// Pending bookings do not consume capacity
	slots = client.ListSlots(t, excursion.ID)
	if spots := findSlot(t, slots, slot.ID).AvailableSpots; spots != 8 {
		t.Fatalf("Expected 8 spots while pending, got %d", spots)
	}

	client.ConfirmBooking(t, booking.ID)

	// The slot listing is cached briefly; wait out the TTL
	time.Sleep(16 * time.Second)

	slots = client.ListSlots(t, excursion.ID)
	if spots := findSlot(t, slots, slot.ID).AvailableSpots; spots != 5 {
		t.Fatalf("Expected 5 spots after confirmation, got %d", spots)
	}
}

func TestBookingRejectedWhenOversubscribed(t *testing.T) {
	client := NewTestClient(t)

	excursion := client.CreateExcursion(t, models.CreateExcursionRequest{
		Title:           "Plongée à Kribi",
		Destination:     "Kribi",
		Category:        "mer",
		DurationMinutes: 180,
		PriceCents:      2000000,
		MaxParticipants: 4,
	})

	slotDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	slot := client.CreateSlot(t, models.CreateSlotRequest{
		ExcursionID:     excursion.ID,
		SlotDate:        slotDate,
		StartTime:       "10:00",
		EndTime:         "13:00",
		MaxParticipants: 4,
		IsAvailable:     true,
	})

	booking := client.SubmitBooking(t, models.SubmitBookingRequest{
		ExcursionID:       excursion.ID,
		SlotID:            &slot.ID,
		ParticipantsCount: 4,
	})
	client.ConfirmBooking(t, booking.ID)

	message := client.SubmitBookingExpectingError(t, models.SubmitBookingRequest{
		ExcursionID:       excursion.ID,
		SlotID:            &slot.ID,
		ParticipantsCount: 1,
	}, http.StatusBadRequest)

	if message != "insufficient spots, 0 remaining" {
		t.Fatalf("Unexpected rejection message: %q", message)
	}
}

func TestBookingRequiresSlot(t *testing.T) {
	client := NewTestClient(t)

	excursion := client.CreateExcursion(t, models.CreateExcursionRequest{
		Title:           "Safari à Waza",
		Destination:     "Waza",
		Category:        "nature",
		DurationMinutes: 480,
		PriceCents:      5000000,
		MaxParticipants: 6,
	})

	message := client.SubmitBookingExpectingError(t, models.SubmitBookingRequest{
		ExcursionID:       excursion.ID,
		ParticipantsCount: 2,
	}, http.StatusBadRequest)

	if message != "no slot selected" {
		t.Fatalf("Unexpected rejection message: %q", message)
	}
}

func findSlot(t *testing.T, slots models.ListSlotsResponse, id int64) models.SlotResponseItem {
	for _, slot := range slots {
		if slot.ID == id {
			return slot
		}
	}
	t.Fatalf("Slot %d not found in listing", id)
	return models.SlotResponseItem{}
}
