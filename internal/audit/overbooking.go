// Package audit detects oversold availability slots.
//
// The booking submission flow checks capacity and inserts in two separate
// steps, so two submissions racing for the last spot can both land. The
// auditor makes the resulting inconsistency visible: it compares the
// confirmed participant sum of every slot against its capacity and
// reports the slots that exceed it. It never mutates bookings.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kenia972/myyowntour-sub000/internal/metrics"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

// SlotSource is the slice of the slot repository the auditor reads.
type SlotSource interface {
	ListAll(ctx context.Context) ([]models.AvailabilitySlot, error)
	ConfirmedParticipants(ctx context.Context, slotIDs []int64) (map[int64]int, error)
}

// Violation is one oversold slot.
type Violation struct {
	SlotID          int64
	ExcursionID     int64
	MaxParticipants int
	Confirmed       int
}

func (v Violation) String() string {
	return fmt.Sprintf("slot %d (excursion %d): %d confirmed participants for %d spots",
		v.SlotID, v.ExcursionID, v.Confirmed, v.MaxParticipants)
}

type Auditor struct {
	slots SlotSource
}

func NewAuditor(slots SlotSource) *Auditor {
	return &Auditor{slots: slots}
}

// Run scans every slot and returns the oversold ones. Each violation is
// logged and the gauge is updated; the booking data is left untouched.
func (a *Auditor) Run(ctx context.Context) ([]Violation, error) {
	slots, err := a.slots.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	slotIDs := make([]int64, len(slots))
	for i := range slots {
		slotIDs[i] = slots[i].ID
	}

	confirmed, err := a.slots.ConfirmedParticipants(ctx, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed participants: %w", err)
	}

	var violations []Violation
	for _, slot := range slots {
		sum := confirmed[slot.ID]
		if sum > slot.MaxParticipants {
			violations = append(violations, Violation{
				SlotID:          slot.ID,
				ExcursionID:     slot.ExcursionID,
				MaxParticipants: slot.MaxParticipants,
				Confirmed:       sum,
			})
		}
	}

	metrics.OverbookedSlots.Set(float64(len(violations)))

	for _, v := range violations {
		slog.Warn("Oversold slot detected",
			"slot_id", v.SlotID,
			"excursion_id", v.ExcursionID,
			"max_participants", v.MaxParticipants,
			"confirmed", v.Confirmed)
	}

	if len(violations) == 0 {
		slog.Info("Overbooking audit clean", "slots_checked", len(slots))
	}

	return violations, nil
}
