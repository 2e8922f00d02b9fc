// Package metrics exposes the Prometheus instrumentation for the booking
// pipeline and the check-in flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myowntour_bookings_submitted_total",
		Help: "Bookings accepted into pending state.",
	})

	BookingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myowntour_bookings_rejected_total",
		Help: "Booking submissions rejected at validation.",
	}, []string{"reason"})

	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myowntour_bookings_confirmed_total",
		Help: "Bookings moved to confirmed state.",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myowntour_bookings_cancelled_total",
		Help: "Bookings moved to cancelled state.",
	})

	Checkins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myowntour_checkins_total",
		Help: "Check-in attempts by outcome.",
	}, []string{"outcome"})

	OverbookedSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "myowntour_overbooked_slots",
		Help: "Slots where confirmed participants exceed capacity, per last audit run.",
	})

	SlotListCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myowntour_slot_list_cache_total",
		Help: "Slot list reads served from cache vs database.",
	}, []string{"result"})
)
