package service

import (
	"context"
	"fmt"

	apperrors "github.com/Kenia972/myyowntour-sub000/internal/errors"
	"github.com/Kenia972/myyowntour-sub000/internal/logger"
	"github.com/Kenia972/myyowntour-sub000/internal/middleware"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
	"github.com/Kenia972/myyowntour-sub000/internal/repository"
)

type ExcursionService struct {
	excursions *repository.ExcursionRepository
	search     *repository.ExcursionSearchRepository
	slots      *repository.SlotRepository
	profiles   *repository.ProfileRepository
}

func NewExcursionService(excursions *repository.ExcursionRepository, search *repository.ExcursionSearchRepository, slots *repository.SlotRepository, profiles *repository.ProfileRepository) *ExcursionService {
	return &ExcursionService{
		excursions: excursions,
		search:     search,
		slots:      slots,
		profiles:   profiles,
	}
}

// Create registers an excursion for the authenticated guide and mirrors
// it into the search index.
func (s *ExcursionService) Create(ctx context.Context, req *models.CreateExcursionRequest) (*models.CreateExcursionResponse, error) {
	profileID, ok := middleware.ProfileIDFromContext(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	guide, err := s.profiles.GetGuideByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide: %w", err)
	}
	if guide == nil {
		return nil, apperrors.ErrForbidden
	}

	if req.MaxParticipants < 1 {
		return nil, apperrors.ErrInvalidParticipants
	}

	excursion := &models.Excursion{
		GuideID:         guide.ID,
		Title:           req.Title,
		Description:     req.Description,
		Destination:     req.Destination,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		MaxParticipants: req.MaxParticipants,
		IsActive:        true,
	}

	if err := s.excursions.Create(ctx, excursion); err != nil {
		return nil, fmt.Errorf("failed to create excursion: %w", err)
	}

	s.index(ctx, excursion)

	return &models.CreateExcursionResponse{ID: excursion.ID}, nil
}

// Get returns one excursion.
func (s *ExcursionService) Get(ctx context.Context, id int64) (*models.Excursion, error) {
	excursion, err := s.excursions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get excursion: %w", err)
	}
	if excursion == nil {
		return nil, apperrors.ErrExcursionNotFound
	}
	return excursion, nil
}

// Update edits an excursion and refreshes its index document.
func (s *ExcursionService) Update(ctx context.Context, excursion *models.Excursion) error {
	if err := s.excursions.Update(ctx, excursion); err != nil {
		return fmt.Errorf("failed to update excursion: %w", err)
	}
	s.index(ctx, excursion)
	return nil
}

// List returns active excursions. A non-empty query or date filter goes
// through the search index; Postgres serves plain listings and the
// unfiltered fallback when the index is unavailable.
func (s *ExcursionService) List(ctx context.Context, query, date string, page, pageSize int) (models.ListExcursionsResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var excursions []models.Excursion
	var err error

	if (query != "" || date != "") && s.search != nil {
		excursions, err = s.search.Search(ctx, query, date, page, pageSize)
		if err != nil {
			logger.WithContext(ctx).Error("Search index query failed, falling back to database",
				"error", err, "query", query, "date", date)
			excursions, err = s.excursions.List(ctx, page, pageSize)
		}
	} else {
		excursions, err = s.excursions.List(ctx, page, pageSize)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list excursions: %w", err)
	}

	result := make(models.ListExcursionsResponse, len(excursions))
	for i, excursion := range excursions {
		result[i] = models.ListExcursionsResponseItem{
			ID:          excursion.ID,
			Title:       excursion.Title,
			Destination: excursion.Destination,
			PriceCents:  excursion.PriceCents,
		}
	}

	return result, nil
}

// index mirrors an excursion into Elasticsearch. Postgres stays the
// system of record, so index failures are logged, not returned.
func (s *ExcursionService) index(ctx context.Context, excursion *models.Excursion) {
	indexExcursionDoc(ctx, s.search, s.slots, excursion)
}

// indexExcursionDoc writes an excursion's search document with the dates
// of its availability slots. Shared with the slot service, which
// re-indexes whenever slots change so the date filter stays fresh.
func indexExcursionDoc(ctx context.Context, search *repository.ExcursionSearchRepository, slots *repository.SlotRepository, excursion *models.Excursion) {
	if search == nil {
		return
	}

	slotDates, err := collectSlotDates(ctx, slots, excursion.ID)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to load slot dates for indexing",
			"error", err,
			"excursion_id", excursion.ID)
		slotDates = nil
	}

	if err := search.Index(ctx, excursion, slotDates); err != nil {
		logger.WithContext(ctx).Error("Failed to index excursion",
			"error", err,
			"excursion_id", excursion.ID)
	}
}

func collectSlotDates(ctx context.Context, slots *repository.SlotRepository, excursionID int64) ([]string, error) {
	list, err := slots.GetByExcursionID(ctx, excursionID, nil, nil)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(list))
	dates := make([]string, 0, len(list))
	for _, slot := range list {
		day := slot.SlotDate.Format("2006-01-02")
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}
	return dates, nil
}
