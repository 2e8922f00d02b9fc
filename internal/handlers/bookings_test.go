package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kenia972/myyowntour-sub000/internal/models"
	"github.com/Kenia972/myyowntour-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookingStore struct {
	nextID   int64
	bookings map[int64]*models.Booking
}

func (s *stubBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	s.nextID++
	booking.ID = s.nextID
	copied := *booking
	s.bookings[booking.ID] = &copied
	return nil
}

func (s *stubBookingStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	return s.bookings[id], nil
}

func (s *stubBookingStore) GetByClientID(ctx context.Context, clientID int64) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubBookingStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	s.bookings[id].Status = status
	return nil
}

type stubSlotStore struct {
	slot      *models.AvailabilitySlot
	confirmed int
}

func (s *stubSlotStore) GetByID(ctx context.Context, id int64) (*models.AvailabilitySlot, error) {
	if s.slot == nil || s.slot.ID != id {
		return nil, nil
	}
	return s.slot, nil
}

func (s *stubSlotStore) ConfirmedParticipantsForSlot(ctx context.Context, slotID int64) (int, error) {
	return s.confirmed, nil
}

type stubExcursionStore struct {
	excursion *models.Excursion
}

func (s *stubExcursionStore) GetByID(ctx context.Context, id int64) (*models.Excursion, error) {
	if s.excursion == nil || s.excursion.ID != id {
		return nil, nil
	}
	return s.excursion, nil
}

type stubOperatorStore struct{}

func (s *stubOperatorStore) GetOperatorByProfileID(ctx context.Context, profileID int64) (*models.TourOperator, error) {
	return nil, nil
}

type stubPublisher struct{}

func (s *stubPublisher) Publish(subject string, data interface{}) error { return nil }

func setupBookingRouter(slots *stubSlotStore, excursions *stubExcursionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	bookingService := service.NewBookingService(
		&stubBookingStore{bookings: make(map[int64]*models.Booking)},
		slots,
		excursions,
		&stubOperatorStore{},
		&stubPublisher{},
	)

	h := NewHandlers(&service.Services{Bookings: bookingService})

	r := gin.New()
	api := r.Group("/api")
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.SubmitBooking)
			bookings.GET("/:id", h.GetBooking)
			bookings.PATCH("/confirm", h.ConfirmBooking)
		}
	}
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitBookingEndpoint(t *testing.T) {
	slotID := int64(7)
	r := setupBookingRouter(
		&stubSlotStore{slot: &models.AvailabilitySlot{ID: slotID, ExcursionID: 1, MaxParticipants: 10, IsAvailable: true}},
		&stubExcursionStore{excursion: &models.Excursion{ID: 1, PriceCents: 1500000, MaxParticipants: 10, IsActive: true}},
	)

	w := postJSON(t, r, "/api/bookings", models.SubmitBookingRequest{
		ExcursionID:       1,
		SlotID:            &slotID,
		ParticipantsCount: 2,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response models.SubmitBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, models.BookingStatusPending, response.Status)
	assert.Equal(t, int64(3000000), response.TotalAmountCents)
}

func TestSubmitBookingEndpoint_InsufficientSpotsIs400(t *testing.T) {
	slotID := int64(7)
	r := setupBookingRouter(
		&stubSlotStore{
			slot:      &models.AvailabilitySlot{ID: slotID, ExcursionID: 1, MaxParticipants: 6, IsAvailable: true},
			confirmed: 4,
		},
		&stubExcursionStore{excursion: &models.Excursion{ID: 1, PriceCents: 1500000, MaxParticipants: 10, IsActive: true}},
	)

	w := postJSON(t, r, "/api/bookings", models.SubmitBookingRequest{
		ExcursionID:       1,
		SlotID:            &slotID,
		ParticipantsCount: 3,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "insufficient spots, 2 remaining", response["error"])
}

func TestSubmitBookingEndpoint_UnknownSlotIs404(t *testing.T) {
	slotID := int64(999)
	r := setupBookingRouter(
		&stubSlotStore{},
		&stubExcursionStore{excursion: &models.Excursion{ID: 1, PriceCents: 1500000, MaxParticipants: 10}},
	)

	w := postJSON(t, r, "/api/bookings", models.SubmitBookingRequest{
		ExcursionID:       1,
		SlotID:            &slotID,
		ParticipantsCount: 2,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBookingEndpoint_MissingIs404(t *testing.T) {
	r := setupBookingRouter(&stubSlotStore{}, &stubExcursionStore{})

	req, _ := http.NewRequest("GET", "/api/bookings/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
