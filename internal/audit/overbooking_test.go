package audit

import (
	"context"
	"testing"

	"github.com/Kenia972/myyowntour-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlotSource struct {
	slots     []models.AvailabilitySlot
	confirmed map[int64]int
}

func (f *fakeSlotSource) ListAll(ctx context.Context) ([]models.AvailabilitySlot, error) {
	return f.slots, nil
}

func (f *fakeSlotSource) ConfirmedParticipants(ctx context.Context, slotIDs []int64) (map[int64]int, error) {
	return f.confirmed, nil
}

func TestAuditor_ReportsOversoldSlots(t *testing.T) {
	source := &fakeSlotSource{
		slots: []models.AvailabilitySlot{
			{ID: 1, ExcursionID: 10, MaxParticipants: 4},
			{ID: 2, ExcursionID: 10, MaxParticipants: 6},
			{ID: 3, ExcursionID: 11, MaxParticipants: 8},
		},
		confirmed: map[int64]int{
			1: 5, // oversold by one
			2: 6, // exactly full, not a violation
			3: 2,
		},
	}

	violations, err := NewAuditor(source).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, violations, 1)
	assert.Equal(t, int64(1), violations[0].SlotID)
	assert.Equal(t, 5, violations[0].Confirmed)
	assert.Equal(t, 4, violations[0].MaxParticipants)
}

func TestAuditor_CleanWhenWithinCapacity(t *testing.T) {
	source := &fakeSlotSource{
		slots: []models.AvailabilitySlot{
			{ID: 1, ExcursionID: 10, MaxParticipants: 4},
		},
		confirmed: map[int64]int{1: 3},
	}

	violations, err := NewAuditor(source).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, violations)
}
