package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/availability"
	"github.com/Kenia972/myyowntour-sub000/internal/cache"
	apperrors "github.com/Kenia972/myyowntour-sub000/internal/errors"
	"github.com/Kenia972/myyowntour-sub000/internal/logger"
	"github.com/Kenia972/myyowntour-sub000/internal/metrics"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
	"github.com/Kenia972/myyowntour-sub000/internal/repository"
)

type SlotService struct {
	slots      *repository.SlotRepository
	excursions *repository.ExcursionRepository
	search     *repository.ExcursionSearchRepository
	valkey     *cache.ValkeyClient
}

func NewSlotService(slots *repository.SlotRepository, excursions *repository.ExcursionRepository, search *repository.ExcursionSearchRepository, valkey *cache.ValkeyClient) *SlotService {
	return &SlotService{
		slots:      slots,
		excursions: excursions,
		search:     search,
		valkey:     valkey,
	}
}

// List returns the slots of an excursion with derived availability. The
// whole listing is cached as raw JSON under a short TTL; availability is
// recomputed from the confirmed bookings on every cache miss.
func (s *SlotService) List(ctx context.Context, excursionID int64, from, to *string) (models.ListSlotsResponse, []byte, error) {
	// Cache only unfiltered listings, the hot path for the booking page
	cacheable := from == nil && to == nil

	if cacheable && s.valkey != nil {
		if raw, err := s.valkey.GetSlotListRaw(ctx, excursionID); err == nil {
			metrics.SlotListCacheHits.WithLabelValues("hit").Inc()
			return nil, raw, nil
		}
		metrics.SlotListCacheHits.WithLabelValues("miss").Inc()
	}

	slots, err := s.slots.GetByExcursionID(ctx, excursionID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get slots: %w", err)
	}

	slotIDs := make([]int64, len(slots))
	for i := range slots {
		slotIDs[i] = slots[i].ID
	}

	confirmed, err := s.slots.ConfirmedParticipants(ctx, slotIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count confirmed participants: %w", err)
	}

	availabilities := availability.ComputeBulk(slots, confirmed)

	result := make(models.ListSlotsResponse, len(slots))
	for i, slot := range slots {
		avail := availabilities[slot.ID]
		result[i] = models.SlotResponseItem{
			ID:              slot.ID,
			ExcursionID:     slot.ExcursionID,
			SlotDate:        slot.SlotDate.Format("2006-01-02"),
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			MaxParticipants: slot.MaxParticipants,
			PriceOverride:   slot.PriceOverride,
			AvailableSpots:  avail.SpotsLeft,
			IsAvailable:     avail.IsAvailable,
		}
	}

	if cacheable && s.valkey != nil {
		s.valkey.SetSlotList(ctx, excursionID, result)
	}

	return result, nil, nil
}

// Create adds a slot to an excursion the caller owns.
func (s *SlotService) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.AvailabilitySlot, error) {
	excursion, err := s.excursions.GetByID(ctx, req.ExcursionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get excursion: %w", err)
	}
	if excursion == nil {
		return nil, apperrors.ErrExcursionNotFound
	}

	if req.MaxParticipants < 1 {
		return nil, apperrors.ErrInvalidParticipants
	}

	slotDate, err := parseSlotDate(req.SlotDate)
	if err != nil {
		return nil, err
	}

	slot := &models.AvailabilitySlot{
		ExcursionID:     req.ExcursionID,
		SlotDate:        slotDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		PriceOverride:   req.PriceOverride,
		IsAvailable:     req.IsAvailable.Bool(),
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}

	s.invalidate(ctx, slot.ExcursionID)
	s.reindex(ctx, slot.ExcursionID)
	return slot, nil
}

// Update applies a partial edit to a slot.
func (s *SlotService) Update(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.AvailabilitySlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	if slot == nil {
		return nil, apperrors.ErrSlotNotFound
	}

	if req.SlotDate != nil {
		slotDate, err := parseSlotDate(*req.SlotDate)
		if err != nil {
			return nil, err
		}
		slot.SlotDate = slotDate
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 1 {
			return nil, apperrors.ErrInvalidParticipants
		}
		slot.MaxParticipants = *req.MaxParticipants
	}
	if req.PriceOverride != nil {
		slot.PriceOverride = req.PriceOverride
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = req.IsAvailable.Bool()
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to update slot: %w", err)
	}

	s.invalidate(ctx, slot.ExcursionID)
	s.reindex(ctx, slot.ExcursionID)
	return slot, nil
}

// Delete removes a slot. Bookings referencing it keep their slot_id; the
// foreign key is not cascaded.
func (s *SlotService) Delete(ctx context.Context, id int64) error {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get slot: %w", err)
	}
	if slot == nil {
		return apperrors.ErrSlotNotFound
	}

	if err := s.slots.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}

	s.invalidate(ctx, slot.ExcursionID)
	s.reindex(ctx, slot.ExcursionID)
	return nil
}

func (s *SlotService) invalidate(ctx context.Context, excursionID int64) {
	if s.valkey != nil {
		s.valkey.InvalidateSlotList(ctx, excursionID)
	}
}

// reindex refreshes the excursion's search document after a slot change.
func (s *SlotService) reindex(ctx context.Context, excursionID int64) {
	if s.search == nil {
		return
	}
	excursion, err := s.excursions.GetByID(ctx, excursionID)
	if err != nil || excursion == nil {
		if err != nil {
			logger.WithContext(ctx).Error("Failed to load excursion for re-indexing",
				"error", err, "excursion_id", excursionID)
		}
		return
	}
	indexExcursionDoc(ctx, s.search, s.slots, excursion)
}

func parseSlotDate(value string) (time.Time, error) {
	slotDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot date %q: %w", value, err)
	}
	return slotDate, nil
}
